package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jacquesvida12/RemindersApp/internal/models"
	"github.com/jacquesvida12/RemindersApp/internal/taskcsv"
	"github.com/jacquesvida12/RemindersApp/internal/taskquery"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
	ErrTaskNotFound         = errors.New("task not found")
	ErrEmptyTaskTitle       = errors.New("task title must not be empty")
	ErrPatternNotFound      = errors.New("recurring pattern not found")
	ErrInvalidFileType      = errors.New("invalid file type")
	ErrFileTooLarge         = errors.New("file too large")
)

type AuthService interface {
	// Login authenticates the user by username and password.
	//
	// It deletes all sessions with the same user ID and creates
	// a new session and generates a new JWT token pair.
	//
	// It returns ErrUserNotFound if the user with the given
	// username doesn't exist or ErrUserPasswordMismatch if the
	// given password doesn't match the user's password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh updates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if the session with the
	// given refresh token doesn't exist or ErrSessionExpired
	// if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Register a user with the given username and password.
	//
	// It hashes the password, generates a unique ID and creates a
	// session with the given fingerprint and a fresh JWT token pair.
	//
	// It returns ErrUserAlreadyExists if the user
	// with the given username already exists.
	Register(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or jwt.ErrTokenExpired if the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)

	// DeleteExpiredSessions removes every session past its expiry and
	// returns the number of deleted rows. Run periodically by the pruner.
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

type TaskService interface {
	// CreateTask persists the task and, when it references a recurring
	// pattern, the next occurrences generated from the task's due date.
	// The anchor and all occurrences are written in a single transaction,
	// so a failed batch leaves no partial series behind.
	CreateTask(ctx context.Context, params CreateTaskParams) (*CreateTaskResult, error)

	// ListTasks returns the user's tasks matching the criteria, ordered
	// ascending by due date.
	ListTasks(ctx context.Context, userID string, criteria taskquery.Criteria) ([]models.Task, error)

	// ExportTasks writes the same task set ListTasks would return for the
	// given criteria as CSV. Both go through the one query builder.
	ExportTasks(ctx context.Context, userID string, criteria taskquery.Criteria, w io.Writer) error

	// ImportTasks validates every CSV row independently, reports rejected
	// rows and inserts the valid ones as one batch.
	ImportTasks(ctx context.Context, userID string, r io.Reader) (*ImportResult, error)

	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)
	SetTaskCompleted(ctx context.Context, params SetTaskCompletedParams) (*models.Task, error)
	DeleteTask(ctx context.Context, params DeleteTaskParams) error
}

type PatternService interface {
	// CreatePattern validates the recurrence definition before storing it;
	// unknown types and non-positive separation counts are rejected.
	CreatePattern(ctx context.Context, params CreatePatternParams) (*models.RecurringPattern, error)

	ListPatterns(ctx context.Context) ([]models.RecurringPattern, error)

	// DeletePattern removes the pattern together with the user's future,
	// still incomplete tasks that reference it.
	DeletePattern(ctx context.Context, userID, patternID string) error
}

type UserService interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// UpdateAvatar stores the uploaded image and returns its URL.
	UpdateAvatar(ctx context.Context, params UpdateAvatarParams) (string, error)
}

type LoginParams struct {
	Username    string
	Password    string
	Fingerprint string
}

type LoginResult struct {
	UserID                string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}

type CreateTaskParams struct {
	UserID             string
	Title              string
	DueDate            time.Time
	RecurringPatternID *string
}

type CreateTaskResult struct {
	Task *models.Task
	// Occurrences is the number of future tasks materialized from the
	// recurring pattern, zero for one-off tasks.
	Occurrences int
}

type ImportResult struct {
	Imported  int
	RowErrors []taskcsv.RowError
}

type UpdateTaskParams struct {
	ID          string
	UserID      string
	Title       string
	DueDate     time.Time
	IsCompleted bool
}

type SetTaskCompletedParams struct {
	ID          string
	UserID      string
	IsCompleted bool
}

type DeleteTaskParams struct {
	ID     string
	UserID string
}

type CreatePatternParams struct {
	RecurringType   string
	SeparationCount int
	DayOfWeek       *int
	DayOfMonth      *int
	StartDate       time.Time
}

type UpdateAvatarParams struct {
	UserID   string
	Filename string
	Size     int64
	Content  io.Reader
}
