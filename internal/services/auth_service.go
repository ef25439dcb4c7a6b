package services

import (
	"errors"

	"github.com/lucaferrani/luce/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrSetupAlreadyDone       = errors.New("installation already has a user")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidCurrentPassword = errors.New("invalid current password")
	ErrPasswordUnchanged      = errors.New("new password must differ")
)

type AuthUserRepository interface {
	CountUsers() (int64, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	UpdatePassword(userID uint, passwordHash string) error
}

// AuthService manages the single installation account: first-launch setup,
// login and password change.
type AuthService struct {
	users AuthUserRepository
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users}
}

// RequiresSetup reports whether the installation has no account yet.
func (service *AuthService) RequiresSetup() (bool, error) {
	count, err := service.users.CountUsers()
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// Register creates the installation account. Only one account exists per
// installation; any later attempt fails.
func (service *AuthService) Register(emailRaw string, passwordRaw string, name string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	needsSetup, err := service.RequiresSetup()
	if err != nil {
		return models.User{}, err
	}
	if !needsSetup {
		return models.User{}, ErrSetupAlreadyDone
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		DailyMeals:   map[string]string{},
	}
	if name != "" {
		user.Name = name
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (service *AuthService) Authenticate(emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	user, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}

func (service *AuthService) ChangePassword(userID uint, currentPassword string, newPassword string) error {
	user, err := service.users.FindByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return ErrInvalidCurrentPassword
	}
	if currentPassword == newPassword {
		return ErrPasswordUnchanged
	}
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return service.users.UpdatePassword(userID, string(hash))
}
