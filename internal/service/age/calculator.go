package age

import (
	"fmt"
	"time"

	"github.com/kapu/polyglot-connect-go/internal/util"
)

// Calculator turns a birthday string into an age in years.
type Calculator interface {
	CalculateAge(birthday string) (int, error)
}

// CalculatorFunc adapts a plain function to Calculator.
type CalculatorFunc func(birthday string) (int, error)

func (f CalculatorFunc) CalculateAge(birthday string) (int, error) {
	return f(birthday)
}

// DateCalculator computes ages against a clock. A nil Now uses time.Now.
type DateCalculator struct {
	Now func() time.Time
}

func NewDateCalculator() *DateCalculator {
	return &DateCalculator{Now: time.Now}
}

func (c *DateCalculator) CalculateAge(birthday string) (int, error) {
	birth, err := util.ParseDate(birthday)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	if c != nil && c.Now != nil {
		now = c.Now()
	}

	years := util.YearsBetween(birth, now.In(birth.Location()))
	if years < 0 {
		return 0, fmt.Errorf("birthday %q is in the future", birthday)
	}
	return years, nil
}
