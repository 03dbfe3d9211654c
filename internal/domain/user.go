package domain

import "time"

// Role определяет роль пользователя в магазине.
type Role string

const (
	// RoleCustomer — обычный покупатель.
	RoleCustomer Role = "customer"
	// RoleAdmin — администратор каталога и заказов.
	RoleAdmin Role = "admin"
)

// User описывает зарегистрированного пользователя магазина.
// Роль неизменяема после создания.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin сообщает, имеет ли пользователь административную роль.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity — результат разрешения учётных данных: кто действует и с какой ролью.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

// IsAdmin сообщает, принадлежит ли identity администратору.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
