package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/templui/goalkeeper/internal/model"
	"github.com/templui/goalkeeper/internal/repository"
	"github.com/templui/goalkeeper/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidResetToken  = errors.New("reset link is invalid or has expired")
)

const passwordResetExpiry = time.Hour

// AccountNotifier sends the account emails.
type AccountNotifier interface {
	SendWelcomeEmail(ctx context.Context, user *model.User) error
	SendPasswordResetEmail(ctx context.Context, user *model.User, secret string) error
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,password"`
	Name     string `json:"name" validate:"notblank,max=100"`
	Age      int    `json:"age" validate:"gte=0,lte=150"`
	Sex      string `json:"sex" validate:"omitempty,sex"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,password"`
}

type AuthService struct {
	tx             repository.Transactor
	userRepository repository.UserRepository
	notifier       AccountNotifier
	jwtSecret      string
	jwtExpiry      time.Duration
}

func NewAuthService(
	tx repository.Transactor,
	userRepository repository.UserRepository,
	notifier AccountNotifier,
	jwtSecret string,
	jwtExpiry time.Duration,
) *AuthService {
	return &AuthService{
		tx:             tx,
		userRepository: userRepository,
		notifier:       notifier,
		jwtSecret:      jwtSecret,
		jwtExpiry:      jwtExpiry,
	}
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	err := validation.Struct(req)
	if err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Age:          req.Age,
		Sex:          model.Sex(req.Sex),
		CreatedAt:    time.Now(),
	}

	err = s.userRepository.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.notifier != nil {
		err = s.notifier.SendWelcomeEmail(ctx, user)
		if err != nil {
			slog.Error("failed to send welcome email", "error", err, "user_id", user.ID)
		}
	}

	slog.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// RequestPasswordReset emails a one hour reset link. Unknown addresses are ignored so
// the caller cannot tell which emails are registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		slog.Debug("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	secret, err := model.NewTokenSecret()
	if err != nil {
		return err
	}

	err = s.tx.InTx(ctx, func(repos repository.Repositories) error {
		err := repos.Tokens.DeleteUnused(ctx, user.ID, model.TokenTypePasswordReset, "")
		if err != nil {
			return err
		}
		return repos.Tokens.Create(ctx, &model.Token{
			UserID:    user.ID,
			Type:      model.TokenTypePasswordReset,
			Hash:      model.HashToken(secret),
			ExpiresAt: time.Now().Add(passwordResetExpiry),
		})
	})
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	if s.notifier != nil {
		err = s.notifier.SendPasswordResetEmail(ctx, user, secret)
		if err != nil {
			slog.Error("failed to send password reset email", "error", err, "user_id", user.ID)
		}
	}

	return nil
}

// ResetPassword sets a new password for the owner of a reset token. The token is used
// up only if the new password is stored.
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*model.User, error) {
	err := validation.Struct(req)
	if err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var user *model.User
	err = s.tx.InTx(ctx, func(repos repository.Repositories) error {
		token, err := repos.Tokens.Consume(ctx, model.TokenTypePasswordReset, model.HashToken(req.Token))
		if errors.Is(err, repository.ErrTokenNotFound) {
			return ErrInvalidResetToken
		}
		if err != nil {
			return err
		}

		user, err = repos.Users.ByID(ctx, token.UserID)
		if err != nil {
			return err
		}

		user.PasswordHash = hash
		return repos.Users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("password reset", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     now.Add(s.jwtExpiry).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// VerifyJWT checks the signature and expiry of a token and returns the user id it was
// issued for.
func (s *AuthService) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", ErrInvalidToken
	}

	return userID, nil
}
