package domain

// FilterAll is the value of the leading "all/any" entry of both filter tables.
const FilterAll = "all"

// FilterLanguageEntry populates the language selector. FlagCode is empty for
// the "All Languages" entry.
type FilterLanguageEntry struct {
	Display  string `json:"name"`
	Value    string `json:"value"`
	FlagCode string `json:"flagCode,omitempty"`
}

type FilterRoleEntry struct {
	Display string `json:"name"`
	Value   string `json:"value"`
}

// Curated display order. The two Portuguese variants and the trailing Asian
// languages are intentionally out of alphabetical order.
var filterLanguages = []FilterLanguageEntry{
	{Display: "All Languages", Value: FilterAll},
	{Display: "English", Value: "English", FlagCode: "gb"},
	{Display: "French", Value: "French", FlagCode: "fr"},
	{Display: "Spanish", Value: "Spanish", FlagCode: "es"},
	{Display: "German", Value: "German", FlagCode: "de"},
	{Display: "Italian", Value: "Italian", FlagCode: "it"},
	{Display: "Portuguese (Brazil)", Value: "Portuguese (Brazil)", FlagCode: "br"},
	{Display: "Portuguese (Portugal)", Value: "Portuguese (Portugal)", FlagCode: "pt"},
	{Display: "Russian", Value: "Russian", FlagCode: "ru"},
	{Display: "Swedish", Value: "Swedish", FlagCode: "se"},
	{Display: "Indonesian", Value: "Indonesian", FlagCode: "id"},
	{Display: "Tagalog", Value: "Tagalog", FlagCode: "ph"},
	{Display: "Japanese", Value: "Japanese", FlagCode: "jp"},
	{Display: "Arabic", Value: "Arabic", FlagCode: "ae"},
	{Display: "Norwegian", Value: "Norwegian", FlagCode: "no"},
	{Display: "Hindi", Value: "Hindi", FlagCode: "in"},
	{Display: "Polish", Value: "Polish", FlagCode: "pl"},
	{Display: "Dutch", Value: "Dutch", FlagCode: "nl"},
	{Display: "Korean", Value: "Korean", FlagCode: "kr"},
	{Display: "Mandarin Chinese", Value: "Mandarin Chinese", FlagCode: "cn"},
	{Display: "Turkish", Value: "Turkish", FlagCode: "tr"},
	{Display: "Vietnamese", Value: "Vietnamese", FlagCode: "vn"},
	{Display: "Thai", Value: "Thai", FlagCode: "th"},
}

var filterRoles = []FilterRoleEntry{
	{Display: "Any Role", Value: FilterAll},
	{Display: "Tutor", Value: "tutor"},
	{Display: "Native Partner", Value: "native"},
	{Display: "Learner", Value: "learner"},
}

// FilterLanguages returns a copy of the curated language table.
func FilterLanguages() []FilterLanguageEntry {
	out := make([]FilterLanguageEntry, len(filterLanguages))
	copy(out, filterLanguages)
	return out
}

// FilterRoles returns a copy of the curated role table.
func FilterRoles() []FilterRoleEntry {
	out := make([]FilterRoleEntry, len(filterRoles))
	copy(out, filterRoles)
	return out
}

// FindFilterLanguage matches name against either the display name or the value.
func FindFilterLanguage(table []FilterLanguageEntry, name string) (FilterLanguageEntry, bool) {
	for _, entry := range table {
		if entry.Display == name || entry.Value == name {
			return entry, true
		}
	}
	return FilterLanguageEntry{}, false
}
