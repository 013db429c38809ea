package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sun1tar/tasklist-service/internal/models"
	"github.com/sun1tar/tasklist-service/internal/repository"
)

// memUserRepo - хранилище учётных записей в памяти для тестов
type memUserRepo struct {
	seq   int
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*models.User)}
}

func (r *memUserRepo) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	if _, ok := r.users[username]; ok {
		return nil, repository.ErrUserExists
	}
	r.seq++
	user := &models.User{ID: r.seq, Username: username, PasswordHash: passwordHash}
	r.users[username] = user
	return user, nil
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func TestRegisterHashesPassword(t *testing.T) {
	users := newMemUserRepo()
	auth := NewAuthService(users)

	user, err := auth.Register(context.Background(), "alice", "secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.PasswordHash == "secret123" || user.PasswordHash == "" {
		t.Fatalf("plaintext must not be stored: %q", user.PasswordHash)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")) != nil {
		t.Fatalf("stored hash does not verify against the password")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	users := newMemUserRepo()
	auth := NewAuthService(users)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "alice", "secret123"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := auth.Register(ctx, "alice", "another456"); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	users := newMemUserRepo()
	auth := NewAuthService(users)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "alice", "secret123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, err := auth.Authenticate(ctx, "alice", "secret123")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}

	// Неверный пароль и неизвестный логин дают одну и ту же ошибку
	if _, err := auth.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := auth.Authenticate(ctx, "nobody", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}
