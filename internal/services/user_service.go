package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jacquesvida12/RemindersApp/internal/models"
)

var allowedAvatarExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
}

type userServiceImpl struct {
	logger      zerolog.Logger
	pgPool      *pgxpool.Pool
	uploadsDir  string
	maxFileSize int64
}

func NewUserService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
	uploadsDir string,
	maxFileSize int64,
) UserService {
	return &userServiceImpl{
		logger:      logger,
		pgPool:      pgPool,
		uploadsDir:  uploadsDir,
		maxFileSize: maxFileSize,
	}
}

func (s *userServiceImpl) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user := &models.User{ID: userID}

	const selectUserByIDQuery = `
SELECT username,
       profile_picture_url,
       created_at,
       updated_at
FROM users
WHERE id = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectUserByIDQuery,
		user.ID,
	).Scan(
		&user.Username,
		&user.ProfilePictureURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("user_id", user.ID).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to select user by id")
		return nil, err
	}

	return user, nil
}

// UpdateAvatar stores the uploaded bytes under the uploads directory and
// records the resulting URL on the user row. The stored name is a fresh
// UUID plus the original extension, so uploads never collide or traverse
// outside the uploads dir.
func (s *userServiceImpl) UpdateAvatar(ctx context.Context, params UpdateAvatarParams) (string, error) {
	ext := strings.ToLower(filepath.Ext(params.Filename))
	if _, ok := allowedAvatarExtensions[ext]; !ok {
		s.logger.Error().
			Str("filename", params.Filename).
			Msg("disallowed avatar extension")
		return "", ErrInvalidFileType
	}
	if params.Size > s.maxFileSize {
		s.logger.Error().
			Int64("size", params.Size).
			Int64("max", s.maxFileSize).
			Msg("avatar exceeds size limit")
		return "", ErrFileTooLarge
	}

	fileUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate file uuid")
		return "", err
	}
	storedName := fileUUID.String() + ext

	err = os.MkdirAll(s.uploadsDir, 0o755)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("dir", s.uploadsDir).
			Msg("failed to create uploads dir")
		return "", err
	}

	dst, err := os.Create(filepath.Join(s.uploadsDir, storedName))
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create avatar file")
		return "", err
	}
	defer func() { _ = dst.Close() }()

	// The request body is also capped at the handler, this is the backstop.
	_, err = io.Copy(dst, io.LimitReader(params.Content, s.maxFileSize))
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to store avatar file")
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}

	avatarURL := "/" + path.Join("static", "uploads", storedName)

	const updateAvatarQuery = `
UPDATE users
SET profile_picture_url = $1,
    updated_at = $2
WHERE id = $3
`
	tag, err := s.pgPool.Exec(
		ctx,
		updateAvatarQuery,
		avatarURL,
		time.Now(),
		params.UserID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", params.UserID).
			Msg("failed to update avatar url")
		return "", err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Str("user_id", params.UserID).
			Msg("user not found")
		return "", ErrUserNotFound
	}

	s.logger.Info().
		Str("user_id", params.UserID).
		Str("avatar_url", avatarURL).
		Msg("updated avatar")
	return avatarURL, nil
}
