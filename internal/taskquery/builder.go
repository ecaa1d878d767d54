// Package taskquery builds the parameterized selection query for a user's
// task listing. The interactive listing and the CSV export both go through
// Build with the same criteria, so the two can never drift apart.
package taskquery

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusAll       = "all"
)

const dateLayout = "2006-01-02"

// Criteria is the request-scoped filter set. Zero values mean the filter is
// not applied. EndDate holds the user-supplied day; Build widens it to an
// exclusive bound at midnight of the following day so the whole end day is
// included regardless of due time.
type Criteria struct {
	Search    string
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
}

// ParseCriteria validates raw query parameters into a Criteria. An
// unparsable date is a validation error, never a silently unfiltered query.
// Any status other than "active" or "completed" selects all tasks.
func ParseCriteria(search, status, startDate, endDate string) (Criteria, error) {
	c := Criteria{
		Search: strings.TrimSpace(search),
		Status: status,
	}

	if startDate != "" {
		t, err := time.Parse(dateLayout, startDate)
		if err != nil {
			return Criteria{}, fmt.Errorf("invalid start_date %q: %w", startDate, err)
		}
		c.StartDate = &t
	}

	if endDate != "" {
		t, err := time.Parse(dateLayout, endDate)
		if err != nil {
			return Criteria{}, fmt.Errorf("invalid end_date %q: %w", endDate, err)
		}
		c.EndDate = &t
	}

	return c, nil
}

// Query is a conjunction of WHERE clauses with positional arguments and a
// fixed ordering by due date, ties broken by insertion order.
type Query struct {
	Clauses []string
	Args    []any
}

// Build composes the predicate set for userID and c. Clause order and
// placeholder numbering are fully determined by the inputs.
func Build(userID string, c Criteria) Query {
	q := Query{
		Clauses: []string{"user_id = $1"},
		Args:    []any{userID},
	}

	if c.Search != "" {
		q.add("title ILIKE $%d", "%"+c.Search+"%")
	}

	switch c.Status {
	case StatusActive:
		q.Clauses = append(q.Clauses, "is_completed = FALSE")
	case StatusCompleted:
		q.Clauses = append(q.Clauses, "is_completed = TRUE")
	}

	if c.StartDate != nil {
		q.add("due_date >= $%d", *c.StartDate)
	}
	if c.EndDate != nil {
		q.add("due_date < $%d", c.EndDate.AddDate(0, 0, 1))
	}

	return q
}

func (q *Query) add(clause string, arg any) {
	q.Args = append(q.Args, arg)
	q.Clauses = append(q.Clauses, fmt.Sprintf(clause, len(q.Args)))
}

// SelectSQL renders a full statement selecting columns from the tasks table.
func (q Query) SelectSQL(columns string) string {
	return "SELECT " + columns + " FROM tasks WHERE " +
		strings.Join(q.Clauses, " AND ") +
		" ORDER BY due_date ASC, id ASC"
}
