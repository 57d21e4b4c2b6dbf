package query

import (
	"strings"
	"testing"

	"github.com/citybicycle/journeys-backend-go/internal/models"
)

func TestClauseSingleMonth(t *testing.T) {
	d := NewDateRange()

	got := d.Clause(models.MonthSelection{5})
	want := "((departure_date >= '2021-05-01 00:00:00' AND departure_date < '2021-06-01 00:00:00'))"
	if got != want {
		t.Errorf("Clause({5}) = %q, want %q", got, want)
	}
}

// TestClauseBoundaries pins the closed-open month interval: the last
// second of May is inside the May clause, midnight on June 1st is not.
// Stored timestamps compare lexicographically, so plain string comparison
// against the bounds is exactly what the database does.
func TestClauseBoundaries(t *testing.T) {
	lower := "2021-05-01 00:00:00"
	upper := "2021-06-01 00:00:00"

	clause := NewDateRange().Clause(models.MonthSelection{5})
	if !strings.Contains(clause, ">= '"+lower+"'") || !strings.Contains(clause, "< '"+upper+"'") {
		t.Fatalf("clause %q does not cover [%s, %s)", clause, lower, upper)
	}

	lastOfMay := "2021-05-31 23:59:59"
	if !(lastOfMay >= lower && lastOfMay < upper) {
		t.Errorf("%s should match the May interval", lastOfMay)
	}

	firstOfJune := "2021-06-01 00:00:00"
	if firstOfJune >= lower && firstOfJune < upper {
		t.Errorf("%s should not match the May interval", firstOfJune)
	}
}

func TestClauseMultipleMonthsORed(t *testing.T) {
	got := NewDateRange().Clause(models.MonthSelection{5, 7})

	if strings.Count(got, " OR ") != 1 {
		t.Errorf("expected exactly one OR in %q", got)
	}
	if !strings.Contains(got, "'2021-05-01 00:00:00'") || !strings.Contains(got, "'2021-07-01 00:00:00'") {
		t.Errorf("clause %q missing a selected month", got)
	}
	if !strings.HasPrefix(got, "(") || !strings.HasSuffix(got, ")") {
		t.Errorf("clause %q not parenthesized", got)
	}
}

func TestAndClauseForm(t *testing.T) {
	d := NewDateRange()

	and := d.AndClause(models.MonthSelection{6})
	if !strings.HasPrefix(and, " AND (") {
		t.Errorf("AndClause = %q, want ' AND (' prefix", and)
	}
	if and != " AND "+d.Clause(models.MonthSelection{6}) {
		t.Errorf("AndClause should wrap Clause, got %q", and)
	}
}

// The ninth month rolls over to a two-digit next month, which naive
// string concatenation of the month digit would get wrong.
func TestClauseMonthNineDigits(t *testing.T) {
	got := NewDateRange().Clause(models.MonthSelection{9})

	if !strings.Contains(got, "'2021-09-01 00:00:00'") {
		t.Errorf("clause %q missing September lower bound", got)
	}
	if !strings.Contains(got, "'2021-10-01 00:00:00'") {
		t.Errorf("clause %q missing October upper bound", got)
	}
}
