package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sun1tar/tasklist-service/internal/models"
)

// FileTaskRepository хранит задачи в файле по одному JSON-объекту на строку.
// Каждая запись переписывает файл целиком; предыдущее поколение
// переименовывается в backup-файл (хранится ровно одно поколение).
// Вся область "прочитать-изменить-записать" защищена мьютексом,
// иначе параллельные запросы теряют друг друга
type FileTaskRepository struct {
	mu         sync.Mutex
	path       string
	backupPath string
}

func NewFileTaskRepository(path, backupPath string) *FileTaskRepository {
	return &FileTaskRepository{
		path:       path,
		backupPath: backupPath,
	}
}

func (r *FileTaskRepository) Close() error {
	return nil
}

// load читает все задачи из файла. Отсутствие файла - пустое хранилище.
// Вызывается только под мьютексом
func (r *FileTaskRepository) load() ([]*models.Task, error) {
	f, err := os.Open(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks file: %w", err)
	}
	defer f.Close()

	// Потоковый декодер вместо построчного чтения: строки не ограничены
	// по длине, description может быть сколь угодно большим
	var tasks []*models.Task
	dec := json.NewDecoder(bufio.NewReader(f))
	for {
		task := &models.Task{}
		err := dec.Decode(task)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse tasks file: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// save переписывает файл целиком. Новое поколение сначала пишется во
// временный файл; ротация (текущий файл -> backup, временный ->
// текущий) происходит только после успешной записи, поэтому ошибка
// записи не трогает уже сохранённые данные. Вызывается только под
// мьютексом
func (r *FileTaskRepository) save(tasks []*models.Task) error {
	tmpPath := r.path + ".tmp"
	if err := r.writeGeneration(tmpPath, tasks); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if _, err := os.Stat(r.path); err == nil {
		if err := os.Rename(r.path, r.backupPath); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("failed to back up tasks file: %w", err)
		}
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		return fmt.Errorf("failed to replace tasks file: %w", err)
	}
	return nil
}

func (r *FileTaskRepository) writeGeneration(path string, tasks []*models.Task) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create tasks file: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, task := range tasks {
		line, err := json.Marshal(task)
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to encode task: %w", err)
		}
		w.Write(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write tasks file: %w", err)
	}
	return f.Close()
}

// nextID возвращает 1 для пустого хранилища, иначе максимальный id + 1
func nextID(tasks []*models.Task) int {
	maxID := 0
	for _, task := range tasks {
		if task.ID > maxID {
			maxID = task.ID
		}
	}
	return maxID + 1
}

func (r *FileTaskRepository) Create(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load()
	if err != nil {
		return err
	}

	task.ID = nextID(tasks)
	tasks = append(tasks, task)
	return r.save(tasks)
}

func (r *FileTaskRepository) GetByID(ctx context.Context, ownerID, id int) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, task := range tasks {
		if task.ID == id && (ownerID == 0 || task.OwnerID == ownerID) {
			return task, nil
		}
	}
	return nil, ErrTaskNotFound
}

func (r *FileTaskRepository) List(ctx context.Context, ownerID int, completed *bool) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load()
	if err != nil {
		return nil, err
	}

	var result []*models.Task
	for _, task := range tasks {
		if ownerID != 0 && task.OwnerID != ownerID {
			continue
		}
		if completed != nil && task.Completed != *completed {
			continue
		}
		result = append(result, task)
	}
	return result, nil
}

func (r *FileTaskRepository) Update(ctx context.Context, updated *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load()
	if err != nil {
		return err
	}
	for i, task := range tasks {
		if task.ID == updated.ID && (updated.OwnerID == 0 || task.OwnerID == updated.OwnerID) {
			tasks[i] = updated
			return r.save(tasks)
		}
	}
	return ErrTaskNotFound
}

func (r *FileTaskRepository) Delete(ctx context.Context, ownerID, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load()
	if err != nil {
		return err
	}
	for i, task := range tasks {
		if task.ID == id && (ownerID == 0 || task.OwnerID == ownerID) {
			tasks = append(tasks[:i], tasks[i+1:]...)
			return r.save(tasks)
		}
	}
	return ErrTaskNotFound
}
