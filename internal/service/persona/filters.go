package persona

import "github.com/kapu/polyglot-connect-go/internal/domain"

// FilterIndex holds the selector tables published alongside the catalog.
type FilterIndex struct {
	Languages []domain.FilterLanguageEntry
	Roles     []domain.FilterRoleEntry
}

// BuildFilterIndex returns the curated tables. They are fixed rather than
// derived from the connectors, to keep the curated display order.
func BuildFilterIndex() FilterIndex {
	return FilterIndex{
		Languages: domain.FilterLanguages(),
		Roles:     domain.FilterRoles(),
	}
}

// EmptyFilterIndex is published when the roster itself was unusable.
func EmptyFilterIndex() FilterIndex {
	return FilterIndex{
		Languages: []domain.FilterLanguageEntry{},
		Roles:     []domain.FilterRoleEntry{},
	}
}
