package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jacquesvida12/RemindersApp/internal/models"
	"github.com/jacquesvida12/RemindersApp/internal/recurrence"
	"github.com/jacquesvida12/RemindersApp/internal/taskcsv"
	"github.com/jacquesvida12/RemindersApp/internal/taskquery"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

const insertTaskQuery = `
INSERT INTO tasks (user_id,
                   title,
                   due_date,
                   is_completed,
                   recurring_pattern_id,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*CreateTaskResult, error) {
	if params.Title == "" {
		return nil, ErrEmptyTaskTitle
	}

	now := time.Now()
	task := &models.Task{
		UserID:             params.UserID,
		Title:              params.Title,
		DueDate:            params.DueDate,
		IsCompleted:        false,
		RecurringPatternID: params.RecurringPatternID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	var occurrences []time.Time
	if params.RecurringPatternID != nil {
		pattern := models.RecurringPattern{ID: *params.RecurringPatternID}

		const selectPatternQuery = `
SELECT recurring_type, separation_count
FROM recurring_patterns
WHERE id = $1
`
		err := s.pgPool.QueryRow(
			ctx,
			selectPatternQuery,
			pattern.ID,
		).Scan(
			&pattern.RecurringType,
			&pattern.SeparationCount,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				s.logger.Error().
					Str("pattern_id", pattern.ID).
					Msg("recurring pattern not found")
				return nil, ErrPatternNotFound
			}

			s.logger.Error().
				Err(err).
				Str("pattern_id", pattern.ID).
				Msg("failed to select recurring pattern")
			return nil, err
		}

		occurrences, err = recurrence.Expand(pattern.RecurringType, pattern.SeparationCount, task.DueDate)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("pattern_id", pattern.ID).
				Msg("failed to expand recurring pattern")
			return nil, err
		}
	}

	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var taskID int64
	err = tx.QueryRow(
		ctx,
		insertTaskQuery,
		task.UserID,
		task.Title,
		task.DueDate,
		task.IsCompleted,
		task.RecurringPatternID,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&taskID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}
	task.ID = strconv.FormatInt(taskID, 10)
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted anchor task")

	if len(occurrences) > 0 {
		// All occurrences travel in one batch inside the transaction:
		// any failure rolls the whole series back instead of leaving a
		// partially materialized schedule behind.
		batch := &pgx.Batch{}
		for _, dueDate := range occurrences {
			batch.Queue(
				insertTaskQuery,
				task.UserID,
				task.Title,
				dueDate,
				false,
				task.RecurringPatternID,
				now,
				now,
			)
		}

		results := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err = results.Exec(); err != nil {
				_ = results.Close()
				s.logger.Error().
					Err(err).
					Int("occurrence", i+1).
					Msg("failed to insert occurrence")
				return nil, fmt.Errorf("failed to insert occurrence %d: %w", i+1, err)
			}
		}
		if err = results.Close(); err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to close batch")
			return nil, err
		}
		s.logger.Debug().
			Int("count", len(occurrences)).
			Msg("inserted occurrences")
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Int("occurrences", len(occurrences)).
		Msg("created task")
	return &CreateTaskResult{
		Task:        task,
		Occurrences: len(occurrences),
	}, nil
}

const taskColumns = "id, title, due_date, is_completed, recurring_pattern_id, created_at, updated_at"

func (s *taskServiceImpl) ListTasks(ctx context.Context, userID string, criteria taskquery.Criteria) ([]models.Task, error) {
	query := taskquery.Build(userID, criteria)

	rows, err := s.pgPool.Query(
		ctx,
		query.SelectSQL(taskColumns),
		query.Args...,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task := models.Task{UserID: userID}
		var taskID int64
		err = rows.Scan(
			&taskID,
			&task.Title,
			&task.DueDate,
			&task.IsCompleted,
			&task.RecurringPatternID,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		task.ID = strconv.FormatInt(taskID, 10)
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("selected tasks")
	return tasks, nil
}

func (s *taskServiceImpl) ExportTasks(ctx context.Context, userID string, criteria taskquery.Criteria, w io.Writer) error {
	// Reuses ListTasks so the exported rows are exactly the listed rows,
	// same set and same order.
	tasks, err := s.ListTasks(ctx, userID, criteria)
	if err != nil {
		return err
	}

	err = taskcsv.Write(w, tasks)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to encode tasks csv")
		return err
	}

	s.logger.Info().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("exported tasks")
	return nil
}

func (s *taskServiceImpl) ImportTasks(ctx context.Context, userID string, r io.Reader) (*ImportResult, error) {
	imported, rowErrs, err := taskcsv.ReadImport(r)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to read import csv")
		return nil, err
	}

	result := &ImportResult{RowErrors: rowErrs}
	if len(imported) == 0 {
		s.logger.Warn().
			Int("rejected", len(rowErrs)).
			Msg("no valid rows to import")
		return result, nil
	}

	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now()
	batch := &pgx.Batch{}
	for _, row := range imported {
		batch.Queue(
			insertTaskQuery,
			userID,
			row.Title,
			row.DueDate,
			false,
			nil,
			now,
			now,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err = results.Exec(); err != nil {
			_ = results.Close()
			s.logger.Error().
				Err(err).
				Int("row", i).
				Msg("failed to insert imported task")
			return nil, fmt.Errorf("failed to insert imported task %d: %w", i, err)
		}
	}
	if err = results.Close(); err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to close batch")
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	result.Imported = len(imported)
	s.logger.Info().
		Int("imported", result.Imported).
		Int("rejected", len(rowErrs)).
		Str("user_id", userID).
		Msg("imported tasks")
	return result, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	if params.Title == "" {
		return nil, ErrEmptyTaskTitle
	}

	task := &models.Task{
		ID:          params.ID,
		UserID:      params.UserID,
		Title:       params.Title,
		DueDate:     params.DueDate,
		IsCompleted: params.IsCompleted,
		UpdatedAt:   time.Now(),
	}

	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    due_date = $2,
    is_completed = $3,
    updated_at = $4
WHERE id = $5 AND user_id = $6
RETURNING recurring_pattern_id, created_at
`
	err := s.pgPool.QueryRow(
		ctx,
		updateTaskQuery,
		task.Title,
		task.DueDate,
		task.IsCompleted,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	).Scan(
		&task.RecurringPatternID,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("task_id", task.ID).
				Str("user_id", task.UserID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) SetTaskCompleted(ctx context.Context, params SetTaskCompletedParams) (*models.Task, error) {
	task := &models.Task{
		ID:          params.ID,
		UserID:      params.UserID,
		IsCompleted: params.IsCompleted,
		UpdatedAt:   time.Now(),
	}

	const updateTaskCompletionQuery = `
UPDATE tasks
SET is_completed = $1,
    updated_at = $2
WHERE id = $3 AND user_id = $4
RETURNING title, due_date, recurring_pattern_id, created_at
`
	err := s.pgPool.QueryRow(
		ctx,
		updateTaskCompletionQuery,
		task.IsCompleted,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	).Scan(
		&task.Title,
		&task.DueDate,
		&task.RecurringPatternID,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("task_id", task.ID).
				Str("user_id", task.UserID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task completion")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Bool("is_completed", task.IsCompleted).
		Msg("updated task completion")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, params DeleteTaskParams) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND user_id = $2
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteTaskQuery,
		params.ID,
		params.UserID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", params.ID).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		// Someone else's task and a missing task look the same.
		s.logger.Warn().
			Str("task_id", params.ID).
			Str("user_id", params.UserID).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.logger.Info().
		Str("task_id", params.ID).
		Str("user_id", params.UserID).
		Msg("deleted task")
	return nil
}
