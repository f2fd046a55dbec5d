// Package schedule decides when the watch daemon fires.
package schedule

import (
	"fmt"
	"time"

	"github.com/gorhill/cronexpr"
)

// Schedule is a parsed recurrence rule. Accepts standard cron expressions
// and the @hourly/@daily style shorthands.
type Schedule struct {
	expr *cronexpr.Expression
}

// Parse validates spec up front so watch mode fails fast on a bad schedule.
func Parse(spec string) (*Schedule, error) {
	expr, err := cronexpr.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return &Schedule{expr: expr}, nil
}

// Next returns the first firing time after t.
func (s *Schedule) Next(t time.Time) time.Time {
	return s.expr.Next(t)
}
