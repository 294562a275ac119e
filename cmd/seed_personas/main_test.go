package main

import (
	"encoding/json"
	"testing"

	"github.com/kapu/polyglot-connect-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRows_KeepsPositions(t *testing.T) {
	r := &domain.Roster{Records: []*domain.RawPersona{
		{ID: "a", Language: "Spanish"},
		nil,
		{ID: "c", Language: "French", Name: "Céline"},
	}}

	rows, skipped, err := buildRows(r)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, skipped)
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].Position)
	assert.Equal(t, 2, rows[1].Position)
	assert.Equal(t, "c", rows[1].ID)

	var decoded domain.RawPersona
	require.NoError(t, json.Unmarshal(rows[1].Payload, &decoded))
	assert.Equal(t, "Céline", decoded.Name)
}

func TestBuildRows_EmbeddedRosterRoundTrips(t *testing.T) {
	r, err := domain.LoadEmbeddedRoster()
	require.NoError(t, err)

	rows, skipped, err := buildRows(r)
	require.NoError(t, err)
	assert.Empty(t, skipped)

	raw := make([]json.RawMessage, len(rows))
	for i, row := range rows {
		raw[i] = row.Payload
	}
	records, decodeErrs, dropped := domain.DecodeRecords(raw)
	assert.Empty(t, decodeErrs)
	assert.Empty(t, dropped)
	require.Len(t, records, len(r.Records))
	for i := range records {
		assert.Equal(t, r.Records[i].ID, records[i].ID)
		assert.Equal(t, r.Records[i].LanguageSpecificCodes, records[i].LanguageSpecificCodes)
	}
}

func TestSQL_QuotesTable(t *testing.T) {
	assert.Contains(t, createTableSQL(`"personas"`), `CREATE TABLE IF NOT EXISTS "personas"`)
	assert.Contains(t, upsertSQL(`"personas"`), `ON CONFLICT (position) DO UPDATE`)
}
