package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestCircuitBreaker(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(2, time.Minute, nil)
	cb.now = func() time.Time { return now }

	assert.True(t, cb.CanExecute())

	cb.RecordFailure()
	assert.Equal(t, CircuitStateClosed, cb.GetState())

	cb.RecordFailure()
	assert.Equal(t, CircuitStateOpen, cb.GetState())
	assert.False(t, cb.CanExecute())

	now = now.Add(time.Minute)
	assert.Equal(t, CircuitStateHalfOpen, cb.GetState())

	cb.RecordFailure()
	assert.Equal(t, CircuitStateOpen, cb.GetState(), "a failed probe reopens the circuit")

	now = now.Add(time.Minute)
	require.True(t, cb.CanExecute())
	cb.RecordSuccess()
	assert.Equal(t, CircuitStateClosed, cb.GetState())

	cb.RecordFailure()
	assert.Equal(t, CircuitStateClosed, cb.GetState(), "success resets the failure count")
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Tutor", Capitalize("tutor"))
	assert.Equal(t, "Élève", Capitalize("élève"))
	assert.Equal(t, "", Capitalize(""))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", FirstNonEmpty("", "  ", "b", "c"))
	assert.Equal(t, "", FirstNonEmpty())
}

func TestCloneHelpers(t *testing.T) {
	assert.NotNil(t, CloneStrings(nil))
	assert.NotNil(t, CloneStringMap(nil))

	src := []string{"a"}
	out := CloneStrings(src)
	out[0] = "z"
	assert.Equal(t, "a", src[0])
}

func TestParseDate(t *testing.T) {
	for _, value := range []string{"1990-03-04", "1990-03-04T10:00:00Z", "1990-03-04T10:00:00", "1990/03/04"} {
		got, err := ParseDate(value)
		require.NoError(t, err, value)
		assert.Equal(t, time.March, got.Month())
		assert.Equal(t, 4, got.Day())
	}

	_, err := ParseDate("")
	assert.Error(t, err)
	_, err = ParseDate("04.03.1990")
	assert.Error(t, err)
}

func TestYearsBetween(t *testing.T) {
	birth := time.Date(2000, 7, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 24, YearsBetween(birth, time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 25, YearsBetween(birth, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel(" DEBUG "))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("bogus"))
}
