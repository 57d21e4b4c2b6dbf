package query

import (
	"fmt"
	"strings"

	"github.com/citybicycle/journeys-backend-go/internal/models"
)

// DataYear is the year all journey datasets in this deployment belong to.
const DataYear = 2021

// DateRange builds SQL predicates restricting journeys to the months a
// user selected. All month arithmetic is fixed string construction against
// a single data year: a month clause covers the closed-open interval from
// the first day of the month to the first day of the next month. The
// fixed-year, fixed-month-count assumption lives here and nowhere else.
type DateRange struct {
	year int
}

// NewDateRange creates a date range builder for the deployment's data year.
func NewDateRange() *DateRange {
	return &DateRange{year: DataYear}
}

// Clause returns a standalone "(...)" predicate for the selected months,
// usable directly after a WHERE. Each month becomes one clause; the
// clauses are ORed together.
func (d *DateRange) Clause(months models.MonthSelection) string {
	parts := make([]string, 0, len(months))
	for _, m := range months {
		parts = append(parts, d.monthClause(m))
	}

	return "(" + strings.Join(parts, " OR ") + ")"
}

// AndClause returns the predicate in its " AND (...)" form for appending
// to an existing WHERE condition.
func (d *DateRange) AndClause(months models.MonthSelection) string {
	return " AND " + d.Clause(months)
}

// monthClause covers [month-01 00:00:00, nextMonth-01 00:00:00). The upper
// bound is exclusive so a departure at exactly midnight on the first of
// the next month belongs to that month only.
func (d *DateRange) monthClause(month int) string {
	nextYear, nextMonth := d.year, month+1
	if nextMonth > 12 {
		nextYear, nextMonth = d.year+1, 1
	}

	return fmt.Sprintf(
		"(departure_date >= '%04d-%02d-01 00:00:00' AND departure_date < '%04d-%02d-01 00:00:00')",
		d.year, month, nextYear, nextMonth)
}
