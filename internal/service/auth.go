package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/sun1tar/tasklist-service/internal/models"
	"github.com/sun1tar/tasklist-service/internal/repository"
)

var (
	// ErrDuplicateUsername возвращается при повторной регистрации username
	ErrDuplicateUsername = errors.New("username already registered")

	// ErrInvalidCredentials возвращается одинаково и для неизвестного
	// пользователя, и для неверного пароля - различать их наружу нельзя
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService отвечает за регистрацию, проверку учётных данных
// и поиск текущего пользователя по субъекту токена
type AuthService struct {
	users repository.UserRepository
}

func NewAuthService(users repository.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register хэширует пароль и создаёт учётную запись.
// Токен при регистрации не выдаётся - клиент логинится отдельно
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, username, string(hash))
	if errors.Is(err, repository.ErrUserExists) {
		return nil, ErrDuplicateUsername
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate проверяет пару username/password и возвращает пользователя
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// UserBySubject возвращает пользователя по субъекту проверенного токена
func (s *AuthService) UserBySubject(ctx context.Context, subject string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, subject)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
