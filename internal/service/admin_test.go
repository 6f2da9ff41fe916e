package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rim-zghida/plagiasm-detector/internal/models"
)

func seedAdmin(t *testing.T, repo *memUserRepo) *models.User {
	t.Helper()
	admin := &models.User{
		ID:       uuid.New(),
		Email:    "admin@example.com",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := repo.CreateUser(admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return admin
}

func TestAdminCreateUser(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAdminService(repo, zap.NewNop())

	user, err := svc.CreateUser("mod@example.com", "password123", models.RoleModerator)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Role != models.RoleModerator {
		t.Fatalf("role = %q, want moderator", user.Role)
	}

	if _, err := svc.CreateUser("mod@example.com", "other", models.RoleUser); !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("duplicate error = %v, want ErrUserAlreadyExists", err)
	}
	if _, err := svc.CreateUser("x@example.com", "password123", "superuser"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("invalid role error = %v, want ErrInvalidRole", err)
	}
}

func TestUpdateRole(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAdminService(repo, zap.NewNop())
	admin := seedAdmin(t, repo)

	target := &models.User{ID: uuid.New(), Email: "user@example.com", Role: models.RoleUser, IsActive: true}
	if err := repo.CreateUser(target); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	updated, err := svc.UpdateRole(admin.ID, target.ID, models.RoleModerator)
	if err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	if updated.Role != models.RoleModerator {
		t.Fatalf("role = %q, want moderator", updated.Role)
	}
	if repo.users[target.ID].Role != models.RoleModerator {
		t.Fatal("role change not persisted")
	}

	if _, err := svc.UpdateRole(admin.ID, target.ID, "root"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("invalid role error = %v, want ErrInvalidRole", err)
	}
	if _, err := svc.UpdateRole(admin.ID, uuid.New(), models.RoleUser); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing user error = %v, want ErrUserNotFound", err)
	}
}

func TestUpdateRole_SelfDemotionRejected(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAdminService(repo, zap.NewNop())
	admin := seedAdmin(t, repo)

	if _, err := svc.UpdateRole(admin.ID, admin.ID, models.RoleUser); !errors.Is(err, ErrSelfRoleChange) {
		t.Fatalf("self-demotion error = %v, want ErrSelfRoleChange", err)
	}
	if repo.users[admin.ID].Role != models.RoleAdmin {
		t.Fatal("rejected demotion must not change the stored role")
	}

	// Re-asserting the admin role on oneself is a no-op, not a policy error.
	if _, err := svc.UpdateRole(admin.ID, admin.ID, models.RoleAdmin); err != nil {
		t.Fatalf("self admin->admin: %v", err)
	}
}

func TestDeactivateUser(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAdminService(repo, zap.NewNop())
	admin := seedAdmin(t, repo)

	target := &models.User{ID: uuid.New(), Email: "user@example.com", Role: models.RoleUser, IsActive: true}
	if err := repo.CreateUser(target); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	updated, err := svc.DeactivateUser(admin.ID, target.ID)
	if err != nil {
		t.Fatalf("DeactivateUser: %v", err)
	}
	if updated.IsActive {
		t.Fatal("user still active after deactivation")
	}

	if _, err := svc.DeactivateUser(admin.ID, admin.ID); !errors.Is(err, ErrSelfDeactivate) {
		t.Fatalf("self-deactivation error = %v, want ErrSelfDeactivate", err)
	}
	if !repo.users[admin.ID].IsActive {
		t.Fatal("rejected self-deactivation must not change the stored flag")
	}

	if _, err := svc.DeactivateUser(admin.ID, uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing user error = %v, want ErrUserNotFound", err)
	}
}

func TestStats(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAdminService(repo, zap.NewNop())

	seed := []*models.User{
		{ID: uuid.New(), Email: "a@example.com", Role: models.RoleAdmin, IsActive: true},
		{ID: uuid.New(), Email: "b@example.com", Role: models.RoleModerator, IsActive: true},
		{ID: uuid.New(), Email: "c@example.com", Role: models.RoleUser, IsActive: true},
		{ID: uuid.New(), Email: "d@example.com", Role: models.RoleUser, IsActive: false},
	}
	for _, u := range seed {
		if err := repo.CreateUser(u); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	stats, err := svc.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := SystemStats{
		TotalUsers:    4,
		ActiveUsers:   3,
		InactiveUsers: 1,
		Admins:        1,
		Moderators:    1,
		RegularUsers:  2,
	}
	if *stats != want {
		t.Fatalf("stats = %+v, want %+v", *stats, want)
	}
}
