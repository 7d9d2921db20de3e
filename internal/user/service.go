package user

import (
	"context"
	"errors"
	"strings"

	"storefront-be/internal/auth"
	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TokenIssuer interface {
	Generate(userID uuid.UUID, role string) (string, error)
}

type Service interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*User, error)

	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, p CreateParams) (*User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, p UpdateParams) (*User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repository
	tokens TokenIssuer
}

func NewService(repo Repository, tokens TokenIssuer) Service {
	return &service{repo: repo, tokens: tokens}
}

func (s *service) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
	)

	name = strings.TrimSpace(name)
	email = utils.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, ErrFieldsRequired
	}

	u, err := s.create(ctx, name, email, password, RoleCustomer)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(u.ID, u.Role)
	if err != nil {
		log.Error("failed to generate jwt", zap.String("user_id", u.ID.String()), zap.Error(err))
		return nil, err
	}

	log.Info("user registered", zap.String("user_id", u.ID.String()))
	return &AuthResult{User: u, Token: token}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	u, err := s.repo.FindByEmail(ctx, utils.NormalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		log.Warn("login with unknown email")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		log.Error("failed to find user", zap.Error(err))
		return nil, err
	}

	if !auth.CheckPasswordHash(password, u.Password) {
		log.Warn("password mismatch", zap.String("user_id", u.ID.String()))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(u.ID, u.Role)
	if err != nil {
		log.Error("failed to generate jwt", zap.String("user_id", u.ID.String()), zap.Error(err))
		return nil, err
	}

	return &AuthResult{User: u, Token: token}, nil
}

func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *service) CreateUser(ctx context.Context, p CreateParams) (*User, error) {
	name := strings.TrimSpace(p.Name)
	email := utils.NormalizeEmail(p.Email)
	if name == "" || email == "" || p.Password == "" {
		return nil, ErrFieldsRequired
	}

	role := p.Role
	if role == "" {
		role = RoleCustomer
	}
	if !ValidRole(role) {
		return nil, ErrInvalidRole
	}

	u, err := s.create(ctx, name, email, p.Password, role)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("user created by admin",
		zap.String("user_id", u.ID.String()),
		zap.String("role", role),
	)
	return u, nil
}

func (s *service) UpdateUser(ctx context.Context, id uuid.UUID, p UpdateParams) (*User, error) {
	if p.Role != nil && !ValidRole(*p.Role) {
		return nil, ErrInvalidRole
	}
	if p.Email != nil {
		email := utils.NormalizeEmail(*p.Email)
		if email == "" {
			p.Email = nil
		} else {
			p.Email = &email
		}
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		p.Name = nil
	}

	return s.repo.Update(ctx, id, p)
}

func (s *service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("user deleted", zap.String("user_id", id.String()))
	return nil
}

func (s *service) create(ctx context.Context, name, email, password, role string) (*User, error) {
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	return s.repo.Create(ctx, &User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     role,
	})
}
