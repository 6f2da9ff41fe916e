package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rim-zghida/plagiasm-detector/internal/models"
	"github.com/rim-zghida/plagiasm-detector/internal/repository"
)

var (
	ErrInvalidRole    = errors.New("invalid role")
	ErrSelfRoleChange = errors.New("admin cannot change their own role")
	ErrSelfDeactivate = errors.New("admin cannot deactivate themselves")
)

// SystemStats is the admin-facing summary of the user base.
type SystemStats struct {
	TotalUsers    int `json:"total_users"`
	ActiveUsers   int `json:"active_users"`
	InactiveUsers int `json:"inactive_users"`
	Admins        int `json:"admins"`
	Moderators    int `json:"moderators"`
	RegularUsers  int `json:"regular_users"`
}

type AdminService interface {
	ListUsers() ([]*models.User, error)
	CreateUser(email, password, role string) (*models.User, error)
	// UpdateRole changes a user's role. An admin demoting themselves is a
	// policy error.
	UpdateRole(actorID, targetID uuid.UUID, role string) (*models.User, error)
	// DeactivateUser soft-deletes a user. Self-deactivation is a policy error.
	DeactivateUser(actorID, targetID uuid.UUID) (*models.User, error)
	Stats() (*SystemStats, error)
}

type adminService struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

func NewAdminService(repo repository.UserRepository, logger *zap.Logger) AdminService {
	return &adminService{repo: repo, logger: logger}
}

func (s *adminService) ListUsers() ([]*models.User, error) {
	return s.repo.ListUsers()
}

func (s *adminService) CreateUser(email, password, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	if _, err := s.repo.GetUserByEmail(email); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Info("Admin created user", zap.String("email", email), zap.String("role", role))
	return user, nil
}

func (s *adminService) UpdateRole(actorID, targetID uuid.UUID, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	user, err := s.repo.GetUserByID(targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if targetID == actorID && role != models.RoleAdmin {
		return nil, ErrSelfRoleChange
	}

	if err := s.repo.UpdateUserRole(targetID, role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	user.Role = role
	s.logger.Info("User role updated", zap.String("email", user.Email), zap.String("role", role))
	return user, nil
}

func (s *adminService) DeactivateUser(actorID, targetID uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetUserByID(targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if targetID == actorID {
		return nil, ErrSelfDeactivate
	}

	if err := s.repo.SetUserActive(targetID, false); err != nil {
		return nil, fmt.Errorf("failed to deactivate user: %w", err)
	}
	user.IsActive = false
	s.logger.Info("User deactivated", zap.String("email", user.Email))
	return user, nil
}

func (s *adminService) Stats() (*SystemStats, error) {
	users, err := s.repo.ListUsers()
	if err != nil {
		return nil, err
	}

	stats := &SystemStats{TotalUsers: len(users)}
	for _, u := range users {
		if u.IsActive {
			stats.ActiveUsers++
		}
		switch u.Role {
		case models.RoleAdmin:
			stats.Admins++
		case models.RoleModerator:
			stats.Moderators++
		default:
			stats.RegularUsers++
		}
	}
	stats.InactiveUsers = stats.TotalUsers - stats.ActiveUsers
	return stats, nil
}
