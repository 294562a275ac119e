package catalog

import (
	"testing"

	"github.com/kapu/polyglot-connect-go/internal/domain"
	"github.com/kapu/polyglot-connect-go/internal/service/persona"
	"github.com/stretchr/testify/assert"
)

func connector(id, language string, roles map[string]domain.RoleList, native, practice []string) *domain.Connector {
	c := &domain.Connector{}
	c.ID = id
	c.Language = language
	c.LanguageRoles = roles
	for _, l := range native {
		c.NativeLanguages = append(c.NativeLanguages, domain.LanguageEntry{Lang: l})
	}
	for _, l := range practice {
		c.PracticeLanguages = append(c.PracticeLanguages, domain.LanguageEntry{Lang: l})
	}
	return c
}

func ids(connectors []*domain.Connector) []string {
	out := make([]string, 0, len(connectors))
	for _, c := range connectors {
		out = append(out, c.ID)
	}
	return out
}

func testCatalog() *Catalog {
	return newCatalog([]*domain.Connector{
		connector("es_tutor", "Spanish", map[string]domain.RoleList{"Spanish": {"tutor", "native"}}, []string{"Spanish"}, []string{"English"}),
		connector("fr_native", "French", map[string]domain.RoleList{"French": {"native"}, "English": {"learner"}}, []string{"French"}, nil),
		connector("jp_lower", "Japanese", map[string]domain.RoleList{"japanese": {"tutor"}}, nil, nil),
		connector("de_noroles", "German", nil, []string{"German"}, nil),
	}, persona.BuildFilterIndex())
}

func TestCatalog_Select(t *testing.T) {
	c := testCatalog()

	tests := []struct {
		name     string
		language string
		role     string
		want     []string
	}{
		{"no filters", "all", "all", []string{"es_tutor", "fr_native", "jp_lower", "de_noroles"}},
		{"empty values mean all", "", "", []string{"es_tutor", "fr_native", "jp_lower", "de_noroles"}},
		{"primary language case-insensitive", "spanish", "all", []string{"es_tutor"}},
		{"practice language", "English", "all", []string{"es_tutor", "fr_native"}},
		{"role under selected language", "English", "learner", []string{"fr_native"}},
		{"role key lower-cased", "Japanese", "tutor", []string{"jp_lower"}},
		{"role in any language", "all", "tutor", []string{"es_tutor", "jp_lower"}},
		{"role matched lower-cased", "all", "Native", []string{"es_tutor", "fr_native"}},
		{"no role for language", "German", "tutor", []string{}},
		{"unknown language", "Klingon", "all", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(c.Select(tt.language, tt.role)))
		})
	}
}

func TestCatalog_Accessors(t *testing.T) {
	c := testCatalog()

	assert.Equal(t, 4, c.Len())
	assert.False(t, c.Empty())

	got, ok := c.ByID("fr_native")
	assert.True(t, ok)
	assert.Equal(t, "French", got.Language)

	_, ok = c.ByID("missing")
	assert.False(t, ok)

	list := c.Connectors()
	list[0] = nil
	assert.NotNil(t, c.Connectors()[0], "Connectors must return a copy")

	langs := c.Languages()
	langs[0].Value = "changed"
	assert.Equal(t, domain.FilterAll, c.Languages()[0].Value)
	assert.Equal(t, domain.FilterAll, c.Roles()[0].Value)
}

func TestEmptyCatalog(t *testing.T) {
	c := emptyCatalog()
	assert.True(t, c.Empty())
	assert.Empty(t, c.Select("all", "all"))
	assert.Empty(t, c.Languages())
	assert.Empty(t, c.Roles())
}
