package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"agri-advisor/internal/domain/entity"
	"agri-advisor/internal/domain/repository"
)

const minPasswordLen = 6

type AccountService struct {
	users    repository.UserRepo
	hashCost int
	now      func() time.Time
}

func NewAccountService(users repository.UserRepo) *AccountService {
	return &AccountService{users: users, hashCost: bcrypt.DefaultCost, now: time.Now}
}

func (s *AccountService) Register(ctx context.Context, req entity.RegisterUserRequest) (*entity.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", entity.ErrInvalidRequest)
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", entity.ErrInvalidRequest, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := s.now().UTC()
	u := &entity.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate returns ErrInvalidCredentials for both an unknown email and a
// wrong password.
func (s *AccountService) Authenticate(ctx context.Context, req entity.LoginRequest) (*entity.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, entity.ErrInvalidCredentials
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrResourceNotFound) {
			return nil, entity.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, entity.ErrInvalidCredentials
	}
	return u, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AccountService) Update(ctx context.Context, id string, req entity.UpdateUserRequest) (*entity.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", entity.ErrInvalidRequest)
		}
		u.Name = name
	}
	if req.Phone != nil {
		u.Phone = strings.TrimSpace(*req.Phone)
	}
	u.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes the user together with their lands and orders.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", entity.ErrInvalidRequest)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: email is not valid", entity.ErrInvalidRequest)
	}
	return email, nil
}
