package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/templui/goalkeeper/internal/model"
	"github.com/templui/goalkeeper/internal/repository"
	"github.com/templui/goalkeeper/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCurrentPassword = errors.New("current password is incorrect")

type UpdateProfileRequest struct {
	Name string `json:"name" validate:"notblank,max=100"`
	Age  int    `json:"age" validate:"gte=0,lte=150"`
	Sex  string `json:"sex" validate:"omitempty,sex"`
}

type UserService struct {
	userRepository repository.UserRepository
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{userRepository: userRepository}
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	return s.userRepository.ByID(ctx, id)
}

func (s *UserService) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.userRepository.ByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
}

// UpdateProfile changes the details goal generation depends on. Age and sex select the
// recommended intakes used for day-to-day goals.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*model.User, error) {
	req.Name = strings.TrimSpace(req.Name)

	err := validation.Struct(req)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = req.Name
	user.Age = req.Age
	user.Sex = model.Sex(req.Sex)

	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

func (s *UserService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword))
	if err != nil {
		return ErrInvalidCurrentPassword
	}

	err = validation.ValidatePassword(newPassword)
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hashedPassword)
	return s.userRepository.Update(ctx, user)
}

func (s *UserService) Delete(ctx context.Context, userID string) error {
	return s.userRepository.Delete(ctx, userID)
}
