package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/rl1809/invenedu/internal/core/domain"
	"github.com/rl1809/invenedu/internal/logger"
	"github.com/rl1809/invenedu/internal/port"
)

// DirectoryService reads and registers users.
type DirectoryService struct {
	store port.Store
}

func NewDirectoryService(store port.Store) *DirectoryService {
	return &DirectoryService{store: store}
}

func (s *DirectoryService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.store.GetUser(ctx, id)
}

// Authenticate resolves a caller id to an active user.
func (s *DirectoryService) Authenticate(ctx context.Context, id string) (*domain.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrUserNotFound
	}

	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, domain.ErrUserInactive
	}
	return u, nil
}

func (s *DirectoryService) ListUsers(ctx context.Context, term string, activeOnly bool) ([]domain.User, error) {
	return s.store.ListUsers(ctx, term, activeOnly)
}

func (s *DirectoryService) CreateUser(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	u := &domain.User{
		ID:        uuid.NewString(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		IsActive:  in.IsActive,
		Role:      in.Role,
	}

	err := s.store.WithinTx(ctx, func(tx port.Tx) error {
		taken, err := tx.UserEmailExists(ctx, in.Email)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrEmailTaken
		}
		return tx.CreateUser(ctx, u)
	})
	if err != nil {
		logFailure(ctx, "create user failed", err, "email", in.Email)
		return nil, err
	}

	logger.FromContext(ctx).Info("user created", "user_id", u.ID, "role", u.Role)
	return u, nil
}
