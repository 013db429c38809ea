package repository

import (
	"context"

	"github.com/sun1tar/tasklist-service/internal/models"
)

// TaskRepository - контракт хранилища задач. ownerID == 0 означает
// однопользовательский режим без фильтрации по владельцу
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, ownerID, id int) (*models.Task, error)
	List(ctx context.Context, ownerID int, completed *bool) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, ownerID, id int) error
	Close() error
}

// UserRepository - контракт хранилища учётных записей
type UserRepository interface {
	Create(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
