package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joshua-takyi/eventspark/internal/helpers"
	"github.com/joshua-takyi/eventspark/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SignupInput struct {
	Name     string `validate:"required,min=2"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

type UserService struct {
	userRepo models.UserRepo
	logger   *slog.Logger
}

func NewUserService(userRepo models.UserRepo, logger *slog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Signup registers a user with the default role.
func (us *UserService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := models.Validate.Struct(input); err != nil {
		return nil, helpers.ValidationFailure(err)
	}

	if _, err := us.userRepo.GetUserByEmail(ctx, input.Email); err == nil {
		return nil, models.ValidationError("Email already exists")
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hash,
		Role:     models.RoleUser,
		IsActive: true,
	}
	if err := models.Validate.Struct(user); err != nil {
		return nil, helpers.ValidationFailure(err)
	}

	created, err := us.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	us.logger.Info("User signed up", "user_id", created.ID.Hex())
	return created, nil
}

// Login checks credentials. Unknown emails, wrong passwords and inactive
// accounts all fail the same way.
func (us *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	invalid := models.NewError(models.ErrUnauthenticated, "Please check your credentials")
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, models.ValidationError("Please provide email and password")
	}

	user, err := us.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive || !helpers.CheckPassword(user.Password, password) {
		return nil, invalid
	}
	return user, nil
}

func (us *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return us.userRepo.GetUserByID(ctx, id)
}
