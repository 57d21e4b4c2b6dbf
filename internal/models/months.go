package models

import (
	"fmt"
	"strconv"
	"strings"
)

// AvailableMonthCount is how many monthly journey datasets this deployment
// carries. Selecting all of them is the "no filter" case.
const AvailableMonthCount = 3

// MonthSelection is the set of months (1-9, within the fixed data year)
// a query is restricted to.
type MonthSelection []int

// ParseMonthSelection parses a comma separated selectedMonths query
// parameter such as "5,6" into a validated MonthSelection.
func ParseMonthSelection(raw string) (MonthSelection, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("selectedMonths must not be empty")
	}

	var months MonthSelection
	for _, part := range strings.Split(raw, ",") {
		m, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid month %q: %w", part, err)
		}
		if m < 1 || m > 9 {
			return nil, fmt.Errorf("month %d out of range 1-9", m)
		}
		months = append(months, m)
	}

	return months, nil
}

// AllSelected reports whether every available month is selected, which
// short-circuits to an unfiltered full read instead of a predicate query.
// Like the rest of the month handling it keys off the count of selected
// months, not which months they are.
func (m MonthSelection) AllSelected() bool {
	return len(m) >= AvailableMonthCount
}
