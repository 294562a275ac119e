package catalog

import (
	"strings"

	"github.com/kapu/polyglot-connect-go/internal/domain"
	"github.com/kapu/polyglot-connect-go/internal/service/persona"
)

// Catalog is the published, read-only set of Connectors and filter tables.
// Callers must treat the returned Connectors as immutable.
type Catalog struct {
	connectors []*domain.Connector
	byID       map[string]*domain.Connector
	filters    persona.FilterIndex
}

func newCatalog(connectors []*domain.Connector, filters persona.FilterIndex) *Catalog {
	byID := make(map[string]*domain.Connector, len(connectors))
	for _, c := range connectors {
		byID[c.ID] = c
	}
	return &Catalog{
		connectors: connectors,
		byID:       byID,
		filters:    filters,
	}
}

func emptyCatalog() *Catalog {
	return newCatalog([]*domain.Connector{}, persona.EmptyFilterIndex())
}

// Connectors returns the catalog in roster order.
func (c *Catalog) Connectors() []*domain.Connector {
	out := make([]*domain.Connector, len(c.connectors))
	copy(out, c.connectors)
	return out
}

func (c *Catalog) ByID(id string) (*domain.Connector, bool) {
	connector, ok := c.byID[id]
	return connector, ok
}

func (c *Catalog) Len() int {
	return len(c.connectors)
}

func (c *Catalog) Empty() bool {
	return len(c.connectors) == 0
}

func (c *Catalog) Languages() []domain.FilterLanguageEntry {
	out := make([]domain.FilterLanguageEntry, len(c.filters.Languages))
	copy(out, c.filters.Languages)
	return out
}

func (c *Catalog) Roles() []domain.FilterRoleEntry {
	out := make([]domain.FilterRoleEntry, len(c.filters.Roles))
	copy(out, c.filters.Roles)
	return out
}

// Select narrows the catalog by language and role. An empty value or "all"
// disables that filter. With a language selected, the role must be declared
// for that language; otherwise any language's roles count.
func (c *Catalog) Select(language, role string) []*domain.Connector {
	language = strings.TrimSpace(language)
	role = strings.TrimSpace(role)
	filterLanguage := language != "" && language != domain.FilterAll
	filterRole := role != "" && role != domain.FilterAll

	out := make([]*domain.Connector, 0, len(c.connectors))
	for _, connector := range c.connectors {
		if filterLanguage && !speaksLanguage(connector, language) {
			continue
		}
		if filterRole && !hasRole(connector, language, filterLanguage, role) {
			continue
		}
		out = append(out, connector)
	}
	return out
}

func speaksLanguage(c *domain.Connector, language string) bool {
	if strings.EqualFold(c.Language, language) {
		return true
	}
	for _, entry := range c.NativeLanguages {
		if strings.EqualFold(entry.Lang, language) {
			return true
		}
	}
	for _, entry := range c.PracticeLanguages {
		if strings.EqualFold(entry.Lang, language) {
			return true
		}
	}
	_, ok := rolesForLanguage(c, language)
	return ok
}

// rolesForLanguage looks the key up as given, then lower-cased.
func rolesForLanguage(c *domain.Connector, language string) (domain.RoleList, bool) {
	if c.LanguageRoles == nil {
		return nil, false
	}
	if roles, ok := c.LanguageRoles[language]; ok {
		return roles, true
	}
	roles, ok := c.LanguageRoles[strings.ToLower(language)]
	return roles, ok
}

func hasRole(c *domain.Connector, language string, scoped bool, role string) bool {
	want := strings.ToLower(role)
	if scoped {
		roles, _ := rolesForLanguage(c, language)
		return containsRole(roles, want)
	}
	for _, roles := range c.LanguageRoles {
		if containsRole(roles, want) {
			return true
		}
	}
	return false
}

func containsRole(roles domain.RoleList, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
