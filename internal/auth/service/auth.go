package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotelbooking/internal/auth/validator"
	userserrors "hotelbooking/internal/users/errors"
	"hotelbooking/pkg/config"
	apperrors "hotelbooking/pkg/errors"
	"hotelbooking/pkg/model"
	"hotelbooking/pkg/sanitizer"

	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.UserView, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResult, error)
}

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type TokenIssuer interface {
	Issue(subject string, issuedAt time.Time) (string, error)
	ExpiresIn() string
}

type authService struct {
	users     UserStore
	tokens    TokenIssuer
	validator *validator.AuthValidator
	cfg       *config.Config

	hashCost int
	now      func() time.Time
}

func NewAuthService(users UserStore, tokens TokenIssuer, validator *validator.AuthValidator, cfg *config.Config) AuthService {
	return &authService{
		users:     users,
		tokens:    tokens,
		validator: validator,
		cfg:       cfg,
		hashCost:  bcrypt.DefaultCost,
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.UserView, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("Registration details are required")
	}
	s.sanitizeRegister(req)

	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Registration validation failed", "email", req.Email, "error", err)
		return nil, apperrors.Validation("Registration validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	role, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, apperrors.Validation("Registration validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		s.cfg.Log.Error("Failed to check email", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}
	if exists {
		return nil, apperrors.InvalidInput(fmt.Sprintf("%s already exists", req.Email))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		Email:        req.Email,
		Name:         req.Name,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrEmailExists) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("%s already exists", req.Email))
		}
		s.cfg.Log.Error("Failed to create user", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}

	s.cfg.Log.Info("User registered successfully", "id", user.ID, "role", user.Role)
	return user.View(), nil
}

func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResult, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("Credentials are required")
	}
	req.Email = sanitizer.NormalizeEmail(req.Email)

	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.Validation("Login validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFound("User")
		}
		s.cfg.Log.Error("Failed to find user for login", "error", err)
		return nil, apperrors.Internal("Failed to log in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.cfg.Log.Warn("Login rejected", "user_id", user.ID)
		return nil, apperrors.AuthFailure("Bad credentials")
	}

	signed, err := s.tokens.Issue(user.Email, s.now())
	if err != nil {
		s.cfg.Log.Error("Failed to issue token", "user_id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to log in", err)
	}

	return &model.LoginResult{
		Token:          signed,
		Role:           user.Role,
		ExpirationTime: s.tokens.ExpiresIn(),
	}, nil
}

// sanitizeRegister keeps an unparseable phone as typed so validation reports it.
func (s *authService) sanitizeRegister(req *model.RegisterRequest) {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	if phone := sanitizer.NormalizePhone(req.PhoneNumber); phone != "" {
		req.PhoneNumber = phone
	}
}
