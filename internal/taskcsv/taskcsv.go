// Package taskcsv reads and writes the fixed task CSV record shape:
// columns Title, DueDate, IsCompleted with DueDate as "2006-01-02 15:04:05".
// The shape is part of the import/export compatibility contract.
package taskcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jacquesvida12/RemindersApp/internal/models"
)

const DateTimeLayout = "2006-01-02 15:04:05"

// importColumns is the number of columns an import row carries. Completion
// state and recurrence are never imported, only title and due date.
const importColumns = 2

var exportHeader = []string{"Title", "DueDate", "IsCompleted"}

var (
	ErrRowShape    = errors.New("row must have exactly two columns: title, due date")
	ErrEmptyTitle  = errors.New("title must not be empty")
	ErrInvalidDate = errors.New("due date is not in format " + DateTimeLayout)
)

// ImportedTask is one validated import row. Tasks built from it are owned by
// the importing user, start incomplete and carry no recurrence reference.
type ImportedTask struct {
	Title   string
	DueDate time.Time
}

// RowError reports a single rejected row without failing the whole import.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

// ValidateImportRow checks a raw record independently of every other row.
func ValidateImportRow(row []string, line int) (ImportedTask, *RowError) {
	if len(row) != importColumns {
		return ImportedTask{}, &RowError{Line: line, Err: ErrRowShape}
	}
	if row[0] == "" {
		return ImportedTask{}, &RowError{Line: line, Err: ErrEmptyTitle}
	}

	dueDate, err := time.Parse(DateTimeLayout, row[1])
	if err != nil {
		return ImportedTask{}, &RowError{Line: line, Err: ErrInvalidDate}
	}

	return ImportedTask{Title: row[0], DueDate: dueDate}, nil
}

// ReadImport parses the whole stream, skipping the header row. Malformed
// rows are collected as RowErrors; well-formed ones are returned in input
// order. Validation finishes before the caller issues any persistence call.
func ReadImport(r io.Reader) ([]ImportedTask, []RowError, error) {
	reader := csv.NewReader(r)
	// Column count is validated per row instead.
	reader.FieldsPerRecord = -1

	var (
		tasks   []ImportedTask
		rowErrs []RowError
	)
	for line := 0; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read csv: %w", err)
		}
		if line == 0 {
			// Header row.
			continue
		}

		task, rowErr := ValidateImportRow(row, line)
		if rowErr != nil {
			rowErrs = append(rowErrs, *rowErr)
			continue
		}
		tasks = append(tasks, task)
	}

	return tasks, rowErrs, nil
}

// Write encodes tasks in the given order, header first.
func Write(w io.Writer, tasks []models.Task) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, task := range tasks {
		record := []string{
			task.Title,
			task.DueDate.Format(DateTimeLayout),
			strconv.FormatBool(task.IsCompleted),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
