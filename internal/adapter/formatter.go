package adapter

import (
	"sort"
	"strings"

	"github.com/kapu/polyglot-connect-go/internal/domain"
)

// FlagURLer resolves a country code to a displayable flag URL.
type FlagURLer interface {
	URL(code string) string
}

// CardFormatter renders catalog data as plain text for the CLI.
type CardFormatter struct {
	flags FlagURLer
}

func NewCardFormatter(flags FlagURLer) *CardFormatter {
	return &CardFormatter{flags: flags}
}

type languageView struct {
	Lang     string
	LevelTag string
	FlagURL  string
}

type roleView struct {
	Language string
	Roles    []string
}

type cardView struct {
	Name               string
	ProfileName        string
	ID                 string
	DisplayTitle       string
	Age                string
	City               string
	Country            string
	Profession         string
	Language           string
	LanguageCode       string
	LiveSpeechCode     string
	FlagURL            string
	VoiceName          string
	LiveAPIVoiceName   string
	Native             []languageView
	Practice           []languageView
	Roles              []roleView
	Interests          []string
	CommunicationStyle string
	GreetingMessage    string
}

// FormatCard renders one Connector as a profile card.
func (f *CardFormatter) FormatCard(c *domain.Connector) (string, error) {
	if c == nil {
		return executeFormatterTemplate("card_missing.tmpl", nil)
	}

	view := cardView{
		Name:               c.Name,
		ProfileName:        c.ProfileName,
		ID:                 c.ID,
		DisplayTitle:       c.DisplayTitle,
		Age:                c.Age.String(),
		City:               c.City,
		Country:            c.Country,
		Profession:         c.Profession,
		Language:           c.Language,
		LanguageCode:       c.LanguageCode,
		LiveSpeechCode:     c.LiveSpeechLanguageCode(),
		FlagURL:            f.flagURL(c.FlagCode),
		VoiceName:          c.VoiceName,
		LiveAPIVoiceName:   c.LiveAPIVoiceName,
		Native:             f.languageViews(c.NativeLanguages),
		Practice:           f.languageViews(c.PracticeLanguages),
		Roles:              roleViews(c.LanguageRoles),
		Interests:          c.Interests,
		CommunicationStyle: c.CommunicationStyle,
		GreetingMessage:    strings.TrimSpace(c.GreetingMessage),
	}
	if view.ProfileName == "" {
		view.ProfileName = view.Name
	}

	return executeFormatterTemplate("card.tmpl", view)
}

type listRow struct {
	ID           string
	Name         string
	DisplayTitle string
	Age          string
	FlagCode     string
}

// FormatList renders a numbered one-line-per-connector listing.
func (f *CardFormatter) FormatList(connectors []*domain.Connector) (string, error) {
	rows := make([]listRow, 0, len(connectors))
	for _, c := range connectors {
		if c == nil {
			continue
		}
		name := c.ProfileName
		if name == "" {
			name = c.Name
		}
		rows = append(rows, listRow{
			ID:           c.ID,
			Name:         name,
			DisplayTitle: c.DisplayTitle,
			Age:          c.Age.String(),
			FlagCode:     c.FlagCode,
		})
	}
	return executeFormatterTemplate("list.tmpl", rows)
}

type filtersView struct {
	Languages []filterLanguageView
	Roles     []domain.FilterRoleEntry
}

type filterLanguageView struct {
	Display string
	Value   string
	FlagURL string
}

// FormatFilters renders both selector tables in display order.
func (f *CardFormatter) FormatFilters(languages []domain.FilterLanguageEntry, roles []domain.FilterRoleEntry) (string, error) {
	view := filtersView{Roles: roles}
	for _, l := range languages {
		flagURL := ""
		if l.FlagCode != "" {
			flagURL = f.flagURL(l.FlagCode)
		}
		view.Languages = append(view.Languages, filterLanguageView{
			Display: l.Display,
			Value:   l.Value,
			FlagURL: flagURL,
		})
	}
	return executeFormatterTemplate("filters.tmpl", view)
}

// SkipLine is one skipped record in a build summary.
type SkipLine struct {
	Index  int
	ID     string
	Reason string
}

type BuildSummary struct {
	Source  string
	State   string
	Total   int
	Emitted int
	Skipped []SkipLine
}

func (f *CardFormatter) FormatBuildSummary(summary BuildSummary) (string, error) {
	return executeFormatterTemplate("summary.tmpl", summary)
}

// FlagLine is one row of a flag preload report.
type FlagLine struct {
	Code   string
	URL    string
	Status string
	Exists *bool
}

func (f *CardFormatter) FormatFlagReport(lines []FlagLine) (string, error) {
	return executeFormatterTemplate("flags.tmpl", lines)
}

func (f *CardFormatter) flagURL(code string) string {
	if f.flags == nil {
		return ""
	}
	return f.flags.URL(code)
}

func (f *CardFormatter) languageViews(entries []domain.LanguageEntry) []languageView {
	out := make([]languageView, 0, len(entries))
	for _, e := range entries {
		out = append(out, languageView{
			Lang:     e.Lang,
			LevelTag: e.LevelTag,
			FlagURL:  f.flagURL(e.FlagCode),
		})
	}
	return out
}

// roleViews sorts by language so the card is stable across runs.
func roleViews(roles map[string]domain.RoleList) []roleView {
	languages := make([]string, 0, len(roles))
	for lang := range roles {
		languages = append(languages, lang)
	}
	sort.Strings(languages)

	out := make([]roleView, 0, len(languages))
	for _, lang := range languages {
		var labels []string
		for _, r := range roles[lang] {
			if strings.TrimSpace(r) != "" {
				labels = append(labels, r)
			}
		}
		if len(labels) == 0 {
			continue
		}
		out = append(out, roleView{Language: lang, Roles: labels})
	}
	return out
}
