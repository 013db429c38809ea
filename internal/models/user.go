package models

// User - учётная запись. Хэш пароля никогда не сериализуется
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
