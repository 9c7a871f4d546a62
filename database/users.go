package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/subhrajit77/DoDeck-The-Task-manager/models"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint
// failure, used to turn duplicate emails into models.ErrConflict.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Users is the credential store backed by the users table.
type Users struct {
	db *sql.DB
}

func NewUsers(db *sql.DB) *Users {
	return &Users{db: db}
}

// Create inserts a new account. The password argument must already be
// hashed. Returns models.ErrConflict when the email is taken.
func (s *Users) Create(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	u := &models.User{Name: name, Email: email, Password: passwordHash}
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id",
		name, email, passwordHash,
	).Scan(&u.ID)
	if isUniqueViolation(err) {
		return nil, models.ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ByEmail looks an account up by email for login.
func (s *Users) ByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password FROM users WHERE email = $1", email))
}

// ByID resolves a token subject to its account record.
func (s *Users) ByID(ctx context.Context, id int64) (*models.User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password FROM users WHERE id = $1", id))
}

// UpdateProfile changes name and email. Returns models.ErrConflict when
// another account already owns the email.
func (s *Users) UpdateProfile(ctx context.Context, id int64, name, email string) (*models.User, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET name = $1, email = $2 WHERE id = $3", name, email, id)
	if isUniqueViolation(err) {
		return nil, models.ErrConflict
	}
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, models.ErrNotFound
	}
	return &models.User{ID: id, Name: name, Email: email}, nil
}

// UpdatePassword replaces the stored hash.
func (s *Users) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET password = $1 WHERE id = $2", passwordHash, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *Users) scanOne(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
