package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

const unknownAge = "N/A"

// Age is a non-negative year count or the "N/A" sentinel.
type Age struct {
	years int
	known bool
}

// KnownAge returns an Age for years; negative input yields UnknownAge.
func KnownAge(years int) Age {
	if years < 0 {
		return UnknownAge()
	}
	return Age{years: years, known: true}
}

func UnknownAge() Age {
	return Age{}
}

func (a Age) Years() (int, bool) {
	return a.years, a.known
}

func (a Age) String() string {
	if !a.known {
		return unknownAge
	}
	return strconv.Itoa(a.years)
}

func (a Age) MarshalJSON() ([]byte, error) {
	if !a.known {
		return json.Marshal(unknownAge)
	}
	return json.Marshal(a.years)
}

func (a *Age) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != unknownAge {
			return fmt.Errorf("invalid age %q", s)
		}
		*a = UnknownAge()
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid age: %w", err)
	}
	if n < 0 {
		return fmt.Errorf("invalid age %d", n)
	}
	*a = KnownAge(n)
	return nil
}

// Connector is a fully resolved, UI-ready persona. The derived fields are never
// empty; IsActive is owned by presence tracking and stays nil here.
type Connector struct {
	RawPersona

	Age              Age    `json:"age"`
	LanguageCode     string `json:"languageCode"`
	FlagCode         string `json:"flagCode"`
	VoiceName        string `json:"voiceName"`
	LiveAPIVoiceName string `json:"liveApiVoiceName"`
	DisplayTitle     string `json:"displayTitle"`
	IsActive         *bool  `json:"isActive,omitempty"`
}

// LiveSpeechLanguageCode is the speech language for live calls: the primary
// language override when declared, else LanguageCode.
func (c *Connector) LiveSpeechLanguageCode() string {
	if c == nil {
		return ""
	}
	if codes, ok := c.CodesFor(c.Language); ok && codes.LiveAPISpeechLanguageCodeOverride != "" {
		return codes.LiveAPISpeechLanguageCodeOverride
	}
	return c.LanguageCode
}
