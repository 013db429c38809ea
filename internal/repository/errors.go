package repository

import "errors"

var (
	// ErrTaskNotFound возвращается, когда задачи с таким id нет
	// либо она принадлежит другому пользователю - для вызывающего
	// кода эти случаи неразличимы
	ErrTaskNotFound = errors.New("task not found")

	// ErrUserNotFound возвращается при поиске несуществующего пользователя
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists возвращается при попытке занять существующий username
	ErrUserExists = errors.New("username already registered")
)
