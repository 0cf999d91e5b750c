package tests

import (
	"context"
	"testing"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/repository"
	"github.com/phoenixvc/chaufher/internal/service"
)

func newUserService() (*service.UserService, *MockUserRepository) {
	repo := NewMockUserRepository()
	return service.NewUserService(repo), repo
}

func TestRegisterUser(t *testing.T) {
	users, _ := newUserService()

	user, err := users.Register(context.Background(), service.RegisterRequest{
		Email:     "Thandi@Example.com",
		FirstName: "Thandi",
		LastName:  "Nkosi",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Email != "thandi@example.com" {
		t.Errorf("expected lower-cased email, got %s", user.Email)
	}
	if user.Role != domain.RoleRider {
		t.Errorf("expected default RIDER role, got %s", user.Role)
	}
	if !user.IsActive {
		t.Error("expected active account")
	}
}

func TestRegisterUser_RejectsDuplicateEmail(t *testing.T) {
	users, _ := newUserService()
	ctx := context.Background()

	if _, err := users.Register(ctx, service.RegisterRequest{Email: "driver@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := users.Register(ctx, service.RegisterRequest{Email: "DRIVER@example.com"})
	if err != repository.ErrDuplicate {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestRegisterUser_ValidatesEmail(t *testing.T) {
	users, _ := newUserService()

	if _, err := users.Register(context.Background(), service.RegisterRequest{}); err != service.ErrInvalidEmail {
		t.Errorf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestUserLifecycle(t *testing.T) {
	users, _ := newUserService()
	ctx := context.Background()

	user, err := users.Register(ctx, service.RegisterRequest{Email: "rider@example.com", FirstName: "A", LastName: "B"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := users.UpdateProfile(ctx, user.ID, "Ayanda", "Botha")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.FullName() != "Ayanda Botha" {
		t.Errorf("expected Ayanda Botha, got %s", updated.FullName())
	}

	updated, err = users.UpdateNotificationPreferences(ctx, user.ID, true, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.EnablePushNotifications || updated.EnableSmsNotifications || updated.EnableEmailNotifications {
		t.Error("unexpected notification preferences")
	}

	updated, err = users.Deactivate(ctx, user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.IsActive {
		t.Error("expected deactivated account")
	}

	updated, err = users.Reactivate(ctx, user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.IsActive {
		t.Error("expected reactivated account")
	}
}
