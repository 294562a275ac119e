package roster

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/kapu/polyglot-connect-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestEmbeddedSource(t *testing.T) {
	r, err := NewEmbeddedSource().Load(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, r.Records)
	assert.Empty(t, r.DecodeErrors)
}

func TestFileSource_JSON(t *testing.T) {
	path := writeTemp(t, "roster.json", `{
		"version": "2",
		"personas": [
			{"id": "a", "name": "A", "language": "Spanish"},
			null,
			{"id": 7, "language": "German"},
			"oops",
			{"id": "b", "name": "B", "language": "French"}
		]
	}`)

	r, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2", r.Version)
	require.Len(t, r.Records, 5)
	assert.Equal(t, "a", r.Records[0].ID)
	assert.Nil(t, r.Records[1])
	require.NotNil(t, r.Records[2])
	assert.Empty(t, r.Records[2].ID)
	assert.Equal(t, "German", r.Records[2].Language)
	assert.Nil(t, r.Records[3])
	assert.Equal(t, "b", r.Records[4].ID)
	assert.Len(t, r.DecodeErrors, 2)
	assert.Contains(t, r.DecodeErrors, 1)
	assert.Contains(t, r.DecodeErrors, 3)
	assert.Equal(t, map[int][]string{2: {"id"}}, r.DroppedFields)
}

func TestFileSource_YAML(t *testing.T) {
	path := writeTemp(t, "roster.yaml", `
version: "3"
lastUpdated: "2025-06-01"
personas:
  - id: es1
    name: Ana
    language: Spanish
    birthday: "1995-04-02"
    languageRoles:
      Spanish: [tutor, native]
  - ~
  - id: fr1
    name: Luc
    language: French
`)

	r, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "3", r.Version)
	require.Len(t, r.Records, 3)
	assert.Equal(t, "Ana", r.Records[0].Name)
	assert.Equal(t, []string{"tutor", "native"}, r.Records[0].RolesFor("Spanish"))
	assert.Nil(t, r.Records[1])
	assert.Contains(t, r.DecodeErrors, 1)
	assert.Equal(t, "fr1", r.Records[2].ID)
}

func TestFileSource_InvalidDocuments(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json not an object", "r.json", `[1,2,3]`},
		{"json missing personas", "r.json", `{"version":"1"}`},
		{"json personas null", "r.json", `{"personas":null}`},
		{"json personas object", "r.json", `{"personas":{"id":"a"}}`},
		{"yaml missing personas", "r.yml", "version: 1\n"},
		{"yaml personas scalar", "r.yml", "personas: nope\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, tt.file, tt.content)
			_, err := NewFileSource(path).Load(context.Background())

			var rosterErr *apperrors.RosterError
			require.ErrorAs(t, err, &rosterErr)
			assert.Equal(t, apperrors.CodeRosterInvalid, rosterErr.Code)
		})
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "absent.json")).Load(context.Background())
	var rosterErr *apperrors.RosterError
	require.ErrorAs(t, err, &rosterErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSelectPayloadsQuery(t *testing.T) {
	assert.Equal(t, `SELECT payload FROM "personas" ORDER BY position`, selectPayloadsQuery("personas"))
	assert.Equal(t, `SELECT payload FROM "bad""name" ORDER BY position`, selectPayloadsQuery(`bad"name`))
}

func TestRosterFromPayloads(t *testing.T) {
	r := rosterFromPayloads([][]byte{
		[]byte(`{"id":"x","name":"X","language":"German"}`),
		nil,
		[]byte(`not json`),
	})

	require.Len(t, r.Records, 3)
	assert.Equal(t, "x", r.Records[0].ID)
	assert.Nil(t, r.Records[1])
	assert.Nil(t, r.Records[2])
	assert.Len(t, r.DecodeErrors, 2)
}
