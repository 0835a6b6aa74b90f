package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/annazecevic/music-service/domain"
	"github.com/annazecevic/music-service/logger"
	"github.com/annazecevic/music-service/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateRole(ctx context.Context, actorID, id string, role domain.Role) error
	// EnsureUser creates the account unless the username is taken and
	// returns the stored user either way.
	EnsureUser(ctx context.Context, username, password string, role domain.Role) (*domain.User, bool, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) UpdateRole(ctx context.Context, actorID, id string, role domain.Role) error {
	if !role.Valid() {
		return domain.NewValidation("role", "must be USER or ADMIN")
	}
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return err
	}

	logger.Security(logger.EventAdminActivity, "User role changed", logger.Fields(
		"actor_id", actorID,
		"user_id", id,
		"role", string(role),
	))
	return nil
}

func (s *userService) EnsureUser(ctx context.Context, username, password string, role domain.Role) (*domain.User, bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, false, domain.NewValidation("username", "is required")
	}
	if len(password) < 8 {
		return nil, false, domain.NewValidation("password", "must be at least 8 characters")
	}
	if !role.Valid() {
		return nil, false, domain.NewValidation("role", "must be USER or ADMIN")
	}

	existing, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !domain.IsNotFound(err) {
		return nil, false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hashed),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, false, err
	}

	logger.Info(logger.EventAdminActivity, "User seeded", logger.Fields(
		"user_id", user.ID,
		"username", username,
		"role", string(role),
	))
	return user, true, nil
}
