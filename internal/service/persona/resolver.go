package persona

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/kapu/polyglot-connect-go/internal/constants"
	"github.com/kapu/polyglot-connect-go/internal/domain"
	"github.com/kapu/polyglot-connect-go/internal/service/age"
	"github.com/kapu/polyglot-connect-go/internal/util"
)

// resolveInput is everything a field source may consult for one record.
type resolveInput struct {
	persona   *domain.RawPersona
	language  string
	codes     domain.LanguageSpecificCodes
	languages []domain.FilterLanguageEntry
}

// fieldSource yields a candidate value, or "" to defer to the next source.
type fieldSource func(in *resolveInput) string

var (
	languageCodeSources = []fieldSource{
		fromCodes(func(c domain.LanguageSpecificCodes) string { return c.LanguageCode }),
		constant(constants.Sentinels.LanguageCode),
	}
	flagCodeSources = []fieldSource{
		fromCodes(func(c domain.LanguageSpecificCodes) string { return c.FlagCode }),
		fromFilterLanguages,
		fromNativeLanguages,
		fromLanguagePrefix,
		constant(constants.Sentinels.FlagCode),
	}
	voiceNameSources = []fieldSource{
		fromCodes(func(c domain.LanguageSpecificCodes) string { return c.VoiceName }),
		constant(constants.Sentinels.VoiceName),
	}
	liveVoiceNameSources = []fieldSource{
		fromCodes(func(c domain.LanguageSpecificCodes) string { return c.LiveAPIVoiceName }),
		constant(constants.Sentinels.LiveAPIVoice),
	}
)

func resolveField(in *resolveInput, sources []fieldSource) string {
	for _, source := range sources {
		if v := source(in); strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func fromCodes(pick func(domain.LanguageSpecificCodes) string) fieldSource {
	return func(in *resolveInput) string {
		return pick(in.codes)
	}
}

func fromFilterLanguages(in *resolveInput) string {
	entry, ok := domain.FindFilterLanguage(in.languages, in.language)
	if !ok {
		return ""
	}
	return entry.FlagCode
}

func fromNativeLanguages(in *resolveInput) string {
	for _, native := range in.persona.NativeLanguages {
		if native.Lang == in.language && native.FlagCode != "" {
			return native.FlagCode
		}
	}
	return ""
}

func fromLanguagePrefix(in *resolveInput) string {
	if utf8.RuneCountInString(in.language) < 2 {
		return ""
	}
	runes := []rune(in.language)
	return strings.ToLower(string(runes[:2]))
}

func constant(value string) fieldSource {
	return func(*resolveInput) string { return value }
}

// Resolver derives a Connector from one RawPersona. It holds no mutable state:
// the output depends only on the record, the language table and the calculator.
type Resolver struct {
	languages []domain.FilterLanguageEntry
	ages      age.Calculator
}

// NewResolver builds a resolver over a language table. A nil calculator makes
// every age "N/A".
func NewResolver(languages []domain.FilterLanguageEntry, calc age.Calculator) *Resolver {
	table := make([]domain.FilterLanguageEntry, len(languages))
	copy(table, languages)
	return &Resolver{languages: table, ages: calc}
}

// Resolve fills every UI-required field of the record's primary language.
func (r *Resolver) Resolve(p *domain.RawPersona) (*domain.Connector, error) {
	if p == nil {
		return nil, fmt.Errorf("nil persona")
	}
	language := p.Language
	if strings.TrimSpace(language) == "" {
		return nil, fmt.Errorf("persona %q has no primary language", p.ID)
	}

	codes, _ := p.CodesFor(language)
	in := &resolveInput{
		persona:   p,
		language:  language,
		codes:     codes,
		languages: r.languages,
	}

	c := &domain.Connector{
		RawPersona:       withDefaults(p),
		Age:              r.resolveAge(p.Birthday),
		LanguageCode:     resolveField(in, languageCodeSources),
		FlagCode:         resolveField(in, flagCodeSources),
		VoiceName:        resolveField(in, voiceNameSources),
		LiveAPIVoiceName: resolveField(in, liveVoiceNameSources),
		DisplayTitle:     resolveTitle(p, language),
	}
	return c, nil
}

func (r *Resolver) resolveAge(birthday string) (result domain.Age) {
	if r.ages == nil || strings.TrimSpace(birthday) == "" {
		return domain.UnknownAge()
	}
	defer func() {
		if recover() != nil {
			result = domain.UnknownAge()
		}
	}()

	years, err := r.ages.CalculateAge(birthday)
	if err != nil {
		return domain.UnknownAge()
	}
	return domain.KnownAge(years)
}

// resolveTitle prefers an explicit title, then the role form, then the partner
// form. Whatever is picked must name the language.
func resolveTitle(p *domain.RawPersona, language string) string {
	defaultTitle := fmt.Sprintf(constants.PersonaDefaults.TitleTemplate, language, constants.PersonaDefaults.PartnerRole)

	title := ""
	if explicit := strings.TrimSpace(p.ModernTitle); explicit != "" && strings.Contains(explicit, language) {
		title = explicit
	}
	if title == "" {
		if labels := roleLabels(p.RolesFor(language)); len(labels) > 0 {
			title = fmt.Sprintf(constants.PersonaDefaults.TitleTemplate, language, strings.Join(labels, "/"))
		}
	}
	if !strings.Contains(title, language) {
		title = defaultTitle
	}
	return title
}

func roleLabels(roles []string) []string {
	labels := make([]string, 0, len(roles))
	for _, role := range roles {
		role = strings.TrimSpace(role)
		if role == "" {
			continue
		}
		labels = append(labels, util.Capitalize(role))
	}
	return labels
}

// withDefaults copies the record and fills every optional UI field, so the
// Connector never shares slices or maps with the raw roster.
func withDefaults(p *domain.RawPersona) domain.RawPersona {
	d := constants.PersonaDefaults
	out := *p

	out.NativeLanguages = cloneLanguages(p.NativeLanguages)
	out.PracticeLanguages = cloneLanguages(p.PracticeLanguages)
	out.Interests = util.CloneStrings(p.Interests)
	out.InterestsStructured = cloneStructuredInterests(p.InterestsStructured)
	out.KeyLifeEvents = slices.Clone(p.KeyLifeEvents)
	out.CountriesVisited = slices.Clone(p.CountriesVisited)
	out.Dislikes = util.CloneStrings(p.Dislikes)
	out.TutorMinigameImageFiles = util.CloneStrings(p.TutorMinigameImageFiles)
	out.GalleryImageFiles = util.CloneStrings(p.GalleryImageFiles)
	out.LanguageRoles = cloneRoles(p.LanguageRoles)
	out.LanguageSpecificCodes = cloneCodes(p.LanguageSpecificCodes)
	out.LearningLevels = util.CloneStringMap(p.LearningLevels)
	out.SamplePhrases = util.CloneStringMap(p.SamplePhrases)

	out.Profession = util.FirstNonEmpty(p.Profession, d.Profession)
	out.CommunicationStyle = util.FirstNonEmpty(p.CommunicationStyle, d.CommunicationStyle)
	out.GoalsOrMotivations = util.FirstNonEmpty(p.GoalsOrMotivations, fmt.Sprintf(d.GoalsTemplate, p.Language))
	out.PhysicalTimezone = util.FirstNonEmpty(p.PhysicalTimezone, d.Timezone)
	out.ActiveTimezone = util.FirstNonEmpty(p.ActiveTimezone, p.PhysicalTimezone, d.Timezone)

	out.PersonalityTraits = firstNonEmptyList(p.PersonalityTraits, d.PersonalityTraits)
	out.ConversationTopics = firstNonEmptyList(p.ConversationTopics, p.Interests, d.ConversationTopics)
	out.ConversationNoGos = util.CloneStrings(p.ConversationNoGos)
	out.QuirksOrHabits = util.CloneStrings(p.QuirksOrHabits)

	if p.SleepSchedule != nil {
		s := *p.SleepSchedule
		out.SleepSchedule = &s
	} else {
		out.SleepSchedule = &domain.SleepSchedule{Wake: d.WakeTime, Sleep: d.SleepTime}
	}
	if p.ChatPersonality != nil {
		cp := *p.ChatPersonality
		out.ChatPersonality = &cp
	} else {
		out.ChatPersonality = &domain.ChatPersonality{
			Style:         d.ChatStyle,
			TypingDelayMs: d.TypingDelayMs,
			ReplyLength:   d.ReplyLength,
		}
	}
	if p.RelationshipStatus != nil {
		out.RelationshipStatus = cloneRelationship(p.RelationshipStatus)
	}

	return out
}

func firstNonEmptyList(lists ...[]string) []string {
	for _, list := range lists {
		if len(list) > 0 {
			return util.CloneStrings(list)
		}
	}
	return []string{}
}

func cloneLanguages(src []domain.LanguageEntry) []domain.LanguageEntry {
	out := make([]domain.LanguageEntry, len(src))
	copy(out, src)
	return out
}

func cloneRoles(src map[string]domain.RoleList) map[string]domain.RoleList {
	out := make(map[string]domain.RoleList, len(src))
	for lang, roles := range src {
		out[lang] = domain.RoleList(util.CloneStrings(roles))
	}
	return out
}

func cloneStructuredInterests(src map[string][]string) map[string][]string {
	if src == nil {
		return nil
	}
	out := make(map[string][]string, len(src))
	for topic, items := range src {
		out[topic] = util.CloneStrings(items)
	}
	return out
}

func cloneCodes(src map[string]domain.LanguageSpecificCodes) map[string]domain.LanguageSpecificCodes {
	out := make(map[string]domain.LanguageSpecificCodes, len(src))
	for lang, codes := range src {
		out[lang] = codes
	}
	return out
}

func cloneRelationship(src *domain.RelationshipStatus) *domain.RelationshipStatus {
	rs := *src
	rs.Children = util.CloneStrings(src.Children)
	rs.Interests = util.CloneStrings(src.Interests)
	if src.Partner != nil {
		partner := *src.Partner
		partner.Interests = util.CloneStrings(src.Partner.Interests)
		rs.Partner = &partner
	}
	return &rs
}
