package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jacquesvida12/RemindersApp/internal/models"
	"github.com/jacquesvida12/RemindersApp/internal/recurrence"
)

type patternServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewPatternService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) PatternService {
	return &patternServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *patternServiceImpl) CreatePattern(ctx context.Context, params CreatePatternParams) (*models.RecurringPattern, error) {
	err := recurrence.Validate(params.RecurringType, params.SeparationCount)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("recurring_type", params.RecurringType).
			Int("separation_count", params.SeparationCount).
			Msg("invalid recurrence definition")
		return nil, err
	}

	pattern := &models.RecurringPattern{
		RecurringType:   params.RecurringType,
		SeparationCount: params.SeparationCount,
		DayOfWeek:       params.DayOfWeek,
		DayOfMonth:      params.DayOfMonth,
		StartDate:       params.StartDate,
		CreatedAt:       time.Now(),
	}

	patternUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate pattern uuid")
		return nil, err
	}
	pattern.ID = patternUUID.String()

	const insertPatternQuery = `
INSERT INTO recurring_patterns (id,
                                recurring_type,
                                separation_count,
                                day_of_week,
                                day_of_month,
                                start_date,
                                created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertPatternQuery,
		pattern.ID,
		pattern.RecurringType,
		pattern.SeparationCount,
		pattern.DayOfWeek,
		pattern.DayOfMonth,
		pattern.StartDate,
		pattern.CreatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert recurring pattern")
		return nil, err
	}

	s.logger.Info().
		Str("pattern_id", pattern.ID).
		Str("recurring_type", pattern.RecurringType).
		Msg("created recurring pattern")
	return pattern, nil
}

func (s *patternServiceImpl) ListPatterns(ctx context.Context) ([]models.RecurringPattern, error) {
	const selectPatternsQuery = `
SELECT id,
       recurring_type,
       separation_count,
       day_of_week,
       day_of_month,
       start_date,
       created_at
FROM recurring_patterns
ORDER BY created_at ASC
`
	rows, err := s.pgPool.Query(ctx, selectPatternsQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select recurring patterns")
		return nil, err
	}
	defer rows.Close()

	var patterns []models.RecurringPattern
	for rows.Next() {
		var pattern models.RecurringPattern
		err = rows.Scan(
			&pattern.ID,
			&pattern.RecurringType,
			&pattern.SeparationCount,
			&pattern.DayOfWeek,
			&pattern.DayOfMonth,
			&pattern.StartDate,
			&pattern.CreatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan recurring pattern")
			return nil, err
		}
		patterns = append(patterns, pattern)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(patterns)).
		Msg("selected recurring patterns")
	return patterns, nil
}

func (s *patternServiceImpl) DeletePattern(ctx context.Context, userID, patternID string) error {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The user's future, still incomplete occurrences go with the pattern.
	// Completed and past tasks stay as history.
	const deleteFutureTasksQuery = `
DELETE FROM tasks
WHERE recurring_pattern_id = $1 AND
      user_id = $2 AND
      is_completed = FALSE AND
      due_date > NOW()
`
	tag, err := tx.Exec(
		ctx,
		deleteFutureTasksQuery,
		patternID,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("pattern_id", patternID).
			Msg("failed to delete future tasks")
		return err
	}
	s.logger.Debug().
		Str("pattern_id", patternID).
		Int64("affected", tag.RowsAffected()).
		Msg("deleted future tasks")

	const deletePatternQuery = `
DELETE FROM recurring_patterns
WHERE id = $1
`
	tag, err = tx.Exec(
		ctx,
		deletePatternQuery,
		patternID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("pattern_id", patternID).
			Msg("failed to delete recurring pattern")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Str("pattern_id", patternID).
			Msg("recurring pattern not found")
		return ErrPatternNotFound
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}

	s.logger.Info().
		Str("pattern_id", patternID).
		Str("user_id", userID).
		Msg("deleted recurring pattern")
	return nil
}
