package taskquery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID = "0191e7a8-0000-7000-8000-000000000001"

func TestParseCriteriaTrimsSearch(t *testing.T) {
	c, err := ParseCriteria("  milk  ", StatusAll, "", "")
	require.NoError(t, err)
	assert.Equal(t, "milk", c.Search)
}

func TestParseCriteriaRejectsBadDates(t *testing.T) {
	_, err := ParseCriteria("", StatusAll, "not-a-date", "")
	assert.Error(t, err)

	_, err = ParseCriteria("", StatusAll, "", "2025-13-40")
	assert.Error(t, err)
}

func TestBuildUserClauseOnly(t *testing.T) {
	q := Build(userID, Criteria{Status: StatusAll})

	assert.Equal(t, []string{"user_id = $1"}, q.Clauses)
	assert.Equal(t, []any{userID}, q.Args)
	assert.Equal(t,
		"SELECT id, title FROM tasks WHERE user_id = $1 ORDER BY due_date ASC, id ASC",
		q.SelectSQL("id, title"))
}

func TestBuildStatusClauses(t *testing.T) {
	active := Build(userID, Criteria{Status: StatusActive})
	assert.Contains(t, active.Clauses, "is_completed = FALSE")

	completed := Build(userID, Criteria{Status: StatusCompleted})
	assert.Contains(t, completed.Clauses, "is_completed = TRUE")

	// Anything else means no status clause at all.
	for _, status := range []string{StatusAll, "", "archived"} {
		q := Build(userID, Criteria{Status: status})
		assert.Len(t, q.Clauses, 1, "status %q must add no clause", status)
	}
}

func TestBuildAllFilters(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)

	q := Build(userID, Criteria{
		Search:    "milk",
		Status:    StatusActive,
		StartDate: &start,
		EndDate:   &end,
	})

	assert.Equal(t, []string{
		"user_id = $1",
		"title ILIKE $2",
		"is_completed = FALSE",
		"due_date >= $3",
		"due_date < $4",
	}, q.Clauses)
	assert.Equal(t, []any{
		userID,
		"%milk%",
		start,
		end.AddDate(0, 0, 1),
	}, q.Args)
}

func TestBuildEndDateIncludesWholeDay(t *testing.T) {
	// A task due exactly at midnight of the end date must match, so the
	// upper bound is an exclusive comparison against the following midnight.
	end := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	q := Build(userID, Criteria{Status: StatusAll, EndDate: &end})

	require.Len(t, q.Args, 2)
	assert.Equal(t, time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC), q.Args[1])
	assert.Equal(t, "due_date < $2", q.Clauses[1])
}

func TestBuildIsDeterministic(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	c := Criteria{Search: "milk", Status: StatusActive, StartDate: &start}

	first := Build(userID, c)
	second := Build(userID, c)

	assert.Equal(t, first, second)
	assert.Equal(t, first.SelectSQL("id"), second.SelectSQL("id"))
}
