package services

import (
	"context"
	"time"

	"github.com/terraincognita07/nudge/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type AuthUserRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	FindByEmail(ctx context.Context, email string) (models.User, bool, error)
	FindByID(ctx context.Context, userID uint) (models.User, bool, error)
	CreateWithSettings(ctx context.Context, user *models.User) error
}

type AuthService struct {
	users AuthUserRepository
	now   func() time.Time
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users, now: time.Now}
}

// Register validates the input, rejects taken emails and usernames with
// ErrConflict and stores the user together with default settings.
func (service *AuthService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	normalized, err := NormalizeRegisterInput(input)
	if err != nil {
		return models.User{}, err
	}

	emailTaken, err := service.users.ExistsByEmail(ctx, normalized.Email)
	if err != nil {
		return models.User{}, storageError("check email", err)
	}
	if emailTaken {
		return models.User{}, ErrConflict
	}

	usernameTaken, err := service.users.ExistsByUsername(ctx, normalized.Username)
	if err != nil {
		return models.User{}, storageError("check username", err)
	}
	if usernameTaken {
		return models.User{}, ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(normalized.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Username:     normalized.Username,
		Email:        normalized.Email,
		PasswordHash: string(hash),
		CreatedAt:    service.now().UTC(),
	}
	if err := service.users.CreateWithSettings(ctx, &user); err != nil {
		return models.User{}, storageError("create user", err)
	}
	return user, nil
}

func (service *AuthService) Authenticate(ctx context.Context, emailRaw string, password string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, password)
	if err != nil {
		return models.User{}, err
	}

	user, found, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		return models.User{}, storageError("find user", err)
	}
	if !found {
		return models.User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (service *AuthService) FindByID(ctx context.Context, userID uint) (models.User, error) {
	user, found, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, storageError("find user", err)
	}
	if !found {
		return models.User{}, ErrNotFound
	}
	return user, nil
}
