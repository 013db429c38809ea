package service

import (
	"context"

	"github.com/sun1tar/tasklist-service/internal/models"
	"github.com/sun1tar/tasklist-service/internal/repository"
)

// DefaultListLimit - лимит пагинации по умолчанию
const DefaultListLimit = 10

// Stats - сводная статистика по задачам
type Stats struct {
	Total                int     `json:"total_tasks"`
	Completed            int     `json:"completed_tasks"`
	Pending              int     `json:"pending_tasks"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

type TaskService struct {
	repo repository.TaskRepository
}

func NewTaskService(repo repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) Create(ctx context.Context, ownerID int, title string, description *string, completed bool) (*models.Task, error) {
	task := &models.Task{
		Title:       title,
		Description: description,
		Completed:   completed,
		OwnerID:     ownerID,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) GetByID(ctx context.Context, ownerID, id int) (*models.Task, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

// List возвращает задачи с фильтром по completed. Пагинация действует
// только в однопользовательском режиме (ownerID == 0): limit по
// умолчанию 10, offset 0; в режиме с владельцами отдаются все задачи
// пользователя
func (s *TaskService) List(ctx context.Context, ownerID int, completed *bool, limit, offset *int) ([]*models.Task, error) {
	tasks, err := s.repo.List(ctx, ownerID, completed)
	if err != nil {
		return nil, err
	}
	if ownerID != 0 {
		return tasks, nil
	}

	lim := DefaultListLimit
	if limit != nil {
		lim = *limit
	}
	off := 0
	if offset != nil {
		off = *offset
	}

	if off >= len(tasks) {
		return []*models.Task{}, nil
	}
	tasks = tasks[off:]
	if lim < len(tasks) {
		tasks = tasks[:lim]
	}
	return tasks, nil
}

// Update полностью заменяет title/description/completed задачи
func (s *TaskService) Update(ctx context.Context, ownerID, id int, title string, description *string, completed bool) (*models.Task, error) {
	task := &models.Task{
		ID:          id,
		Title:       title,
		Description: description,
		Completed:   completed,
		OwnerID:     ownerID,
	}
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, id int) error {
	return s.repo.Delete(ctx, ownerID, id)
}

// Stats считает итоги по всем задачам владельца.
// При нуле задач процент равен нулю, на ноль не делим
func (s *TaskService) Stats(ctx context.Context, ownerID int) (*Stats, error) {
	tasks, err := s.repo.List(ctx, ownerID, nil)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Total: len(tasks)}
	for _, task := range tasks {
		if task.Completed {
			stats.Completed++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	if stats.Total > 0 {
		stats.CompletionPercentage = float64(stats.Completed) / float64(stats.Total) * 100
	}
	return stats, nil
}
