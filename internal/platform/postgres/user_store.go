package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/studybuddy/studybuddy-api/internal/domain"
	"github.com/studybuddy/studybuddy-api/internal/platform/logger"
	"github.com/studybuddy/studybuddy-api/internal/store"
)

// Unique index names from the users table migration.
const (
	usersEmailUniqueConstraint    = "users_email_unique_idx"
	usersUsernameUniqueConstraint = "users_username_unique_idx"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend. Password hashing
// happens here so plaintext never crosses the store boundary outward.
type PostgresUserStore struct {
	db         store.DBTX
	bcryptCost int
	logger     *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed
// by the caller. If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, bcryptCost int, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:         db,
		bcryptCost: bcryptCost,
		logger:     logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

const userColumns = `id, username, email, hashed_password, is_active, last_login_at,
		timezone, email_notifications, task_reminders, created_at, updated_at`

// Create implements store.UserStore.Create
// It validates the user, hashes the plaintext password, and inserts the row.
// Returns store.ErrEmailExists or store.ErrUsernameExists on duplicates.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
	if err != nil {
		log.Error("failed to hash password",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = string(hashed)
	user.Password = ""

	query := `
		INSERT INTO users (id, username, email, hashed_password, is_active, last_login_at,
			timezone, email_notifications, task_reminders, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Email,
		user.HashedPassword,
		user.IsActive,
		user.LastLoginAt,
		user.Preferences.Timezone,
		user.Preferences.EmailNotifications,
		user.Preferences.TaskReminders,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if mapped := s.mapUserUniqueViolation(err); mapped != nil {
			log.Warn("duplicate identifier during user creation",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.String()))
			return mapped
		}

		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	log.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))
	return nil
}

// mapUserUniqueViolation translates a unique violation on the users table
// to the entity-specific duplicate error, or nil for other errors.
func (s *PostgresUserStore) mapUserUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return nil
	}
	switch pgErr.ConstraintName {
	case usersUsernameUniqueConstraint:
		return fmt.Errorf("%w: %v", store.ErrUsernameExists, err)
	case usersEmailUniqueConstraint:
		return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
	default:
		// Email is the only other unique column on the table.
		return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
	}
}

// GetByID implements store.UserStore.GetByID
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return s.getOne(ctx, query, id)
}

// GetByEmail implements store.UserStore.GetByEmail
// The email is normalized before lookup.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return s.getOne(ctx, query, domain.NormalizeEmail(email))
}

// GetByEmailOrUsername implements store.UserStore.GetByEmailOrUsername
// Returns store.ErrUserNotFound if no user matches the identifier.
func (s *PostgresUserStore) GetByEmailOrUsername(
	ctx context.Context,
	identifier string,
) (*domain.User, error) {
	normalized := domain.NormalizeEmail(identifier)
	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE email = $1 OR lower(username) = $1`,
		userColumns,
	)
	return s.getOne(ctx, query, normalized)
}

func (s *PostgresUserStore) getOne(
	ctx context.Context,
	query string,
	args ...any,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user domain.User
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.IsActive,
		&user.LastLoginAt,
		&user.Preferences.Timezone,
		&user.Preferences.EmailNotifications,
		&user.Preferences.TaskReminders,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return &user, nil
}

// Update implements store.UserStore.Update
// A non-empty plaintext Password is re-hashed before persisting.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during update",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	if user.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
		if err != nil {
			log.Error("failed to hash password during update",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.String()))
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = string(hashed)
		user.Password = ""
	}

	user.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET username = $1, email = $2, hashed_password = $3, is_active = $4,
			timezone = $5, email_notifications = $6, task_reminders = $7, updated_at = $8
		WHERE id = $9
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.HashedPassword,
		user.IsActive,
		user.Preferences.Timezone,
		user.Preferences.EmailNotifications,
		user.Preferences.TaskReminders,
		user.UpdatedAt,
		user.ID,
	)

	if err != nil {
		if mapped := s.mapUserUniqueViolation(err); mapped != nil {
			return mapped
		}
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "user"); err != nil {
		return store.ErrUserNotFound
	}

	log.Info("user updated successfully",
		slog.String("user_id", user.ID.String()))
	return nil
}

// UpdateLastLogin implements store.UserStore.UpdateLastLogin
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET last_login_at = $1, updated_at = $1
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, at.UTC(), id)
	if err != nil {
		log.Error("failed to update last login",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "user"); err != nil {
		return store.ErrUserNotFound
	}

	return nil
}
