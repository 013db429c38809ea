package models

// Task - запись списка задач. Description хранится указателем:
// отсутствие описания и пустая строка для API не одно и то же
type Task struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	OwnerID     int     `json:"-"`
}
