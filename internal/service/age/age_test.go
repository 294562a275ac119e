package age

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time { return time.Date(year, month, day, 12, 0, 0, 0, time.UTC) }
}

func TestDateCalculator(t *testing.T) {
	calc := &DateCalculator{Now: fixedClock(2025, time.July, 14)}

	tests := []struct {
		name     string
		birthday string
		want     int
		wantErr  bool
	}{
		{name: "day before birthday", birthday: "1989-07-15", want: 35},
		{name: "on birthday", birthday: "1989-07-14", want: 36},
		{name: "earlier month", birthday: "2005-02-10", want: 20},
		{name: "rfc3339", birthday: "2000-01-01T00:00:00Z", want: 25},
		{name: "born today", birthday: "2025-07-14", want: 0},
		{name: "future", birthday: "2030-01-01", wantErr: true},
		{name: "garbage", birthday: "not a date", wantErr: true},
		{name: "empty", birthday: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.CalculateAge(tt.birthday)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_ProvideClosesReadyOnce(t *testing.T) {
	reg := NewRegistry()

	_, ok := reg.Calculator()
	assert.False(t, ok)
	select {
	case <-reg.Ready():
		t.Fatal("ready closed before Provide")
	default:
	}

	reg.Provide(nil)
	_, ok = reg.Calculator()
	assert.False(t, ok, "nil calculator must not count as provided")

	first := CalculatorFunc(func(string) (int, error) { return 1, nil })
	second := CalculatorFunc(func(string) (int, error) { return 2, nil })
	reg.Provide(first)
	reg.Provide(second)

	select {
	case <-reg.Ready():
	default:
		t.Fatal("ready not closed after Provide")
	}

	calc, ok := reg.Calculator()
	require.True(t, ok)
	got, _ := calc.CalculateAge("x")
	assert.Equal(t, 1, got, "first provided calculator wins")
}

func TestNewReadyRegistry(t *testing.T) {
	reg := NewReadyRegistry(NewDateCalculator())
	_, ok := reg.Calculator()
	assert.True(t, ok)
	<-reg.Ready()
}
