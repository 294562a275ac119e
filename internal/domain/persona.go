package domain

import "encoding/json"

// LanguageEntry is one native or practice language a persona declares.
type LanguageEntry struct {
	Lang     string `json:"lang"`
	LevelTag string `json:"levelTag,omitempty"`
	FlagCode string `json:"flagCode,omitempty"`
}

// LanguageSpecificCodes carries the technical metadata for one language.
type LanguageSpecificCodes struct {
	LanguageCode                      string `json:"languageCode,omitempty"`
	FlagCode                          string `json:"flagCode,omitempty"`
	VoiceName                         string `json:"voiceName,omitempty"`
	LiveAPIVoiceName                  string `json:"liveApiVoiceName,omitempty"`
	LiveAPISpeechLanguageCodeOverride string `json:"liveApiSpeechLanguageCodeOverride,omitempty"`
}

type SleepSchedule struct {
	Wake  string `json:"wake"`
	Sleep string `json:"sleep"`
}

type ChatPersonality struct {
	Style         string `json:"style"`
	TypingDelayMs int    `json:"typingDelayMs"`
	ReplyLength   string `json:"replyLength"`
}

type Partner struct {
	Name       string   `json:"name,omitempty"`
	Occupation string   `json:"occupation,omitempty"`
	Interests  []string `json:"interests,omitempty"`
}

type RelationshipStatus struct {
	Status               string   `json:"status"`
	Partner              *Partner `json:"partner,omitempty"`
	HowTheyMet           string   `json:"howTheyMet,omitempty"`
	LengthOfRelationship string   `json:"lengthOfRelationship,omitempty"`
	LookingFor           string   `json:"lookingFor,omitempty"`
	Children             []string `json:"children,omitempty"`
	Interests            []string `json:"interests,omitempty"`
	Details              string   `json:"details,omitempty"`
}

type LifeEvent struct {
	Event       string `json:"event"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
}

type CountryVisit struct {
	Country    string `json:"country"`
	Year       string `json:"year,omitempty"`
	Highlights string `json:"highlights,omitempty"`
}

// RoleList is the ordered list of role tags for one language. Entries that are
// not strings decode as empty tags so one stray value does not reject the record.
type RoleList []string

func (r *RoleList) UnmarshalJSON(data []byte) error {
	var values []any
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	roles := make(RoleList, 0, len(values))
	for _, v := range values {
		s, _ := v.(string)
		roles = append(roles, s)
	}
	*r = roles
	return nil
}

// RawPersona is one source-of-truth roster entry. Only ID and Language are
// required; everything else may be missing.
type RawPersona struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	ProfileName string `json:"profileName,omitempty"`
	Language    string `json:"language"`
	Birthday    string `json:"birthday,omitempty"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
	Profession  string `json:"profession,omitempty"`
	Education   string `json:"education,omitempty"`
	BioModern   string `json:"bioModern,omitempty"`

	NativeLanguages   []LanguageEntry `json:"nativeLanguages"`
	PracticeLanguages []LanguageEntry `json:"practiceLanguages"`

	Interests           []string            `json:"interests"`
	InterestsStructured map[string][]string `json:"interestsStructured,omitempty"`
	KeyLifeEvents       []LifeEvent         `json:"keyLifeEvents,omitempty"`
	CountriesVisited    []CountryVisit      `json:"countriesVisited,omitempty"`

	Dislikes           []string `json:"dislikes,omitempty"`
	PersonalityTraits  []string `json:"personalityTraits"`
	CommunicationStyle string   `json:"communicationStyle"`
	ConversationTopics []string `json:"conversationTopics"`
	ConversationNoGos  []string `json:"conversationNoGos"`
	QuirksOrHabits     []string `json:"quirksOrHabits"`
	GoalsOrMotivations string   `json:"goalsOrMotivations"`
	CulturalNotes      string   `json:"culturalNotes,omitempty"`

	AvatarModern    string `json:"avatarModern,omitempty"`
	GreetingCall    string `json:"greetingCall,omitempty"`
	GreetingMessage string `json:"greetingMessage,omitempty"`

	PhysicalTimezone  string           `json:"physicalTimezone"`
	ActiveTimezone    string           `json:"activeTimezone"`
	SleepSchedule     *SleepSchedule   `json:"sleepSchedule"`
	DailyRoutineNotes string           `json:"dailyRoutineNotes,omitempty"`
	ChatPersonality   *ChatPersonality `json:"chatPersonality"`

	TutorMinigameImageFiles []string `json:"tutorMinigameImageFiles,omitempty"`
	GalleryImageFiles       []string `json:"galleryImageFiles,omitempty"`

	LanguageRoles         map[string]RoleList              `json:"languageRoles"`
	LanguageSpecificCodes map[string]LanguageSpecificCodes `json:"languageSpecificCodes"`
	LearningLevels        map[string]string                `json:"learningLevels"`
	RelationshipStatus    *RelationshipStatus              `json:"relationshipStatus,omitempty"`
	ModernTitle           string                           `json:"modernTitle,omitempty"`
	SamplePhrases         map[string]string                `json:"samplePhrases"`
}

// CodesFor returns the technical metadata declared for language, if any.
func (p *RawPersona) CodesFor(language string) (LanguageSpecificCodes, bool) {
	if p == nil || p.LanguageSpecificCodes == nil {
		return LanguageSpecificCodes{}, false
	}
	codes, ok := p.LanguageSpecificCodes[language]
	return codes, ok
}

// RolesFor returns the role tags declared for language, in declaration order.
func (p *RawPersona) RolesFor(language string) []string {
	if p == nil || p.LanguageRoles == nil {
		return nil
	}
	return p.LanguageRoles[language]
}
