package repository

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/rim-zghida/plagiasm-detector/internal/models"
)

type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uuid.UUID) (*models.User, error)
	ListUsers() ([]*models.User, error)
	UpdateUserRole(id uuid.UUID, role string) error
	SetUserActive(id uuid.UUID, active bool) error
}

type userRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewUserRepository(db *sqlx.DB, logger *zap.Logger) UserRepository {
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) CreateUser(user *models.User) error {
	query := `INSERT INTO users (id, email, password_hash, role, is_active)
	          VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	return r.db.QueryRowx(query, user.ID, user.Email, user.PasswordHash, user.Role, user.IsActive).
		Scan(&user.CreatedAt)
}

func (r *userRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	query := `SELECT id, email, password_hash, role, is_active, created_at FROM users WHERE email = $1`
	if err := r.db.Get(&user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `SELECT id, email, password_hash, role, is_active, created_at FROM users WHERE id = $1`
	if err := r.db.Get(&user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListUsers() ([]*models.User, error) {
	var users []*models.User
	query := `SELECT id, email, password_hash, role, is_active, created_at FROM users ORDER BY created_at`
	if err := r.db.Select(&users, query); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdateUserRole(id uuid.UUID, role string) error {
	_, err := r.db.Exec(`UPDATE users SET role = $1 WHERE id = $2`, role, id)
	return err
}

func (r *userRepository) SetUserActive(id uuid.UUID, active bool) error {
	_, err := r.db.Exec(`UPDATE users SET is_active = $1 WHERE id = $2`, active, id)
	return err
}
