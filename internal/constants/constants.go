package constants

import "time"

var Sentinels = struct {
	Age          string
	LanguageCode string
	FlagCode     string
	VoiceName    string
	LiveAPIVoice string
}{
	Age:          "N/A",
	LanguageCode: "unknown-lang-code",
	FlagCode:     "xx",
	VoiceName:    "DefaultVoice",
	LiveAPIVoice: "Puck",
}

// PersonaDefaults are substituted for descriptive fields a raw record leaves empty.
var PersonaDefaults = struct {
	Profession         string
	PersonalityTraits  []string
	CommunicationStyle string
	ConversationTopics []string
	GoalsTemplate      string // %s = primary language
	TitleTemplate      string // AI %s %s
	PartnerRole        string
	WakeTime           string
	SleepTime          string
	ChatStyle          string
	TypingDelayMs      int
	ReplyLength        string
	Timezone           string
}{
	Profession:         "Language Enthusiast",
	PersonalityTraits:  []string{"friendly", "helpful"},
	CommunicationStyle: "conversational",
	ConversationTopics: []string{"general chat"},
	GoalsTemplate:      "To help users practice %s.",
	TitleTemplate:      "AI %s %s",
	PartnerRole:        "Partner",
	WakeTime:           "08:00",
	SleepTime:          "00:00",
	ChatStyle:          "friendly",
	TypingDelayMs:      1500,
	ReplyLength:        "medium",
	Timezone:           "UTC",
}

var LifecycleConfig = struct {
	DependencyTimeout time.Duration
	NotifyTimeout     time.Duration
}{
	DependencyTimeout: 10 * time.Second,
	NotifyTimeout:     3 * time.Second,
}

var FlagConfig = struct {
	CDNBaseURL          string
	FallbackURL         string
	RequestTimeout      time.Duration
	PreloadConcurrency  int
	BreakerThreshold    int
	BreakerResetTimeout time.Duration
}{
	CDNBaseURL:          "https://flagcdn.com",
	FallbackURL:         "/images/flags/unknown.png",
	RequestTimeout:      5 * time.Second,
	PreloadConcurrency:  8,
	BreakerThreshold:    5,
	BreakerResetTimeout: 30 * time.Second,
}

var RedisConfig = struct {
	ReadyChannel string
	ReadyMessage string
	PingTimeout  time.Duration
}{
	ReadyChannel: "polyglot:catalog:ready",
	ReadyMessage: "ready",
	PingTimeout:  5 * time.Second,
}

var PostgresConfig = struct {
	PersonaTable string
	PingTimeout  time.Duration
}{
	PersonaTable: "personas",
	PingTimeout:  5 * time.Second,
}
