package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/sun1tar/tasklist-service/internal/models"
)

const taskSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id SERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	completed BOOLEAN NOT NULL DEFAULT FALSE,
	owner_id INTEGER REFERENCES users (id)
);`

// PostgresTaskRepository хранит задачи в таблице tasks,
// id назначает сама база через SERIAL
type PostgresTaskRepository struct {
	db *sql.DB
}

// NewPostgresTaskRepository открывает соединение и создаёт таблицу,
// если её ещё нет
func NewPostgresTaskRepository(db *sql.DB) (*PostgresTaskRepository, error) {
	if _, err := db.Exec(taskSchema); err != nil {
		return nil, fmt.Errorf("failed to ensure tasks table: %w", err)
	}
	return &PostgresTaskRepository{db: db}, nil
}

func (r *PostgresTaskRepository) Close() error {
	return r.db.Close()
}

// ownerValue переводит ownerID в значение колонки owner_id:
// 0 - однопользовательский режим, в базе будет NULL
func ownerValue(ownerID int) sql.NullInt64 {
	if ownerID == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(ownerID), Valid: true}
}

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	task := &models.Task{}
	var owner sql.NullInt64
	if err := row.Scan(&task.ID, &task.Title, &task.Description, &task.Completed, &owner); err != nil {
		return nil, err
	}
	if owner.Valid {
		task.OwnerID = int(owner.Int64)
	}
	return task, nil
}

func (r *PostgresTaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `INSERT INTO tasks (title, description, completed, owner_id)
              VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, task.Completed, ownerValue(task.OwnerID)).Scan(&task.ID)
}

func (r *PostgresTaskRepository) GetByID(ctx context.Context, ownerID, id int) (*models.Task, error) {
	query := `SELECT id, title, description, completed, owner_id FROM tasks
              WHERE id = $1 AND ($2 = 0 OR owner_id = $2)`
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *PostgresTaskRepository) List(ctx context.Context, ownerID int, completed *bool) ([]*models.Task, error) {
	query := `SELECT id, title, description, completed, owner_id FROM tasks
              WHERE ($1 = 0 OR owner_id = $1)
                AND ($2::boolean IS NULL OR completed = $2)
              ORDER BY id`
	var completedArg sql.NullBool
	if completed != nil {
		completedArg = sql.NullBool{Bool: *completed, Valid: true}
	}

	rows, err := r.db.QueryContext(ctx, query, ownerID, completedArg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *PostgresTaskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `UPDATE tasks SET title = $1, description = $2, completed = $3
              WHERE id = $4 AND ($5 = 0 OR owner_id = $5)`
	result, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, task.Completed, task.ID, task.OwnerID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, ownerID, id int) error {
	query := `DELETE FROM tasks WHERE id = $1 AND ($2 = 0 OR owner_id = $2)`
	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTaskNotFound
	}
	return nil
}
