package taskcsv

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacquesvida12/RemindersApp/internal/models"
)

func TestReadImportMixedRows(t *testing.T) {
	input := strings.Join([]string{
		"Title,DueDate",
		`"Buy milk","2025-03-01 09:00:00"`,
		`"X","not-a-date"`,
		`"Too","2025-03-01 09:00:00","many"`,
		`"Walk dog","2025-03-02 08:00:00"`,
	}, "\n")

	tasks, rowErrs, err := ReadImport(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, tasks, 2)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.Equal(t, time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC), tasks[0].DueDate)
	assert.Equal(t, "Walk dog", tasks[1].Title)

	require.Len(t, rowErrs, 2)
	assert.ErrorIs(t, rowErrs[0].Err, ErrInvalidDate)
	assert.Equal(t, 2, rowErrs[0].Line)
	assert.ErrorIs(t, rowErrs[1].Err, ErrRowShape)
	assert.Equal(t, 3, rowErrs[1].Line)
}

func TestReadImportSkipsHeaderOnly(t *testing.T) {
	tasks, rowErrs, err := ReadImport(strings.NewReader("Title,DueDate\n"))
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Empty(t, rowErrs)
}

func TestValidateImportRowEmptyTitle(t *testing.T) {
	_, rowErr := ValidateImportRow([]string{"", "2025-03-01 09:00:00"}, 4)
	require.NotNil(t, rowErr)
	assert.ErrorIs(t, rowErr.Err, ErrEmptyTitle)
	assert.Equal(t, 4, rowErr.Line)
}

func TestWrite(t *testing.T) {
	tasks := []models.Task{
		{
			Title:       "Buy milk",
			DueDate:     time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC),
			IsCompleted: false,
		},
		{
			Title:       "Pay rent",
			DueDate:     time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC),
			IsCompleted: true,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tasks))

	assert.Equal(t,
		"Title,DueDate,IsCompleted\n"+
			"Buy milk,2025-03-01 09:00:00,false\n"+
			"Pay rent,2025-03-31 23:59:59,true\n",
		buf.String())
}

func TestWriteQuotesEmbeddedCommas(t *testing.T) {
	tasks := []models.Task{
		{Title: "With, comma", DueDate: time.Date(2025, time.May, 5, 12, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tasks))

	assert.Equal(t,
		"Title,DueDate,IsCompleted\n"+
			"\"With, comma\",2025-05-05 12:00:00,false\n",
		buf.String())
}
