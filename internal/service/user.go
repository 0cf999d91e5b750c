package service

import (
	"context"

	"github.com/phoenixvc/chaufher/internal/domain"
	"github.com/phoenixvc/chaufher/internal/repository"
)

// UserService handles account operations.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// RegisterRequest contains the parameters for creating an account.
type RegisterRequest struct {
	Email       string
	PhoneNumber string
	FirstName   string
	LastName    string
	Role        domain.UserRole
}

// Register creates an active account. The email must be unique.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if req.Email == "" {
		return nil, ErrInvalidEmail
	}
	role := req.Role
	if role == "" {
		role = domain.RoleRider
	}

	user := domain.NewUser(req.Email, req.PhoneNumber, req.FirstName, req.LastName, role)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.userRepo.GetByID(ctx, userID)
}

// GetByEmail retrieves a user by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, ErrInvalidEmail
	}
	return s.userRepo.GetByEmail(ctx, email)
}

// UpdateProfile changes the user's name.
func (s *UserService) UpdateProfile(ctx context.Context, userID, firstName, lastName string) (*domain.User, error) {
	return s.mutate(ctx, userID, func(u *domain.User) {
		u.UpdateProfile(firstName, lastName)
	})
}

// UpdateNotificationPreferences toggles the delivery channels.
func (s *UserService) UpdateNotificationPreferences(ctx context.Context, userID string, push, sms, email bool) (*domain.User, error) {
	return s.mutate(ctx, userID, func(u *domain.User) {
		u.UpdateNotificationPreferences(push, sms, email)
	})
}

// Deactivate disables the account.
func (s *UserService) Deactivate(ctx context.Context, userID string) (*domain.User, error) {
	return s.mutate(ctx, userID, (*domain.User).Deactivate)
}

// Reactivate re-enables the account.
func (s *UserService) Reactivate(ctx context.Context, userID string) (*domain.User, error) {
	return s.mutate(ctx, userID, (*domain.User).Reactivate)
}

func (s *UserService) mutate(ctx context.Context, userID string, op func(*domain.User)) (*domain.User, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	op(user)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
