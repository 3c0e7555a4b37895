package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxUsernameLength - максимальная длина username в символах (code points).
const MaxUsernameLength = 10

// Role определяет набор прав участника.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole принимает как "ADMIN", так и "ROLE_ADMIN" в любом регистре.
func ParseRole(value string) (Role, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	normalized = strings.TrimPrefix(normalized, "ROLE_")
	switch Role(normalized) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Address - адрес доставки участника.
type Address struct {
	Address         string
	DetailedAddress string
	ZipCode         string
}

// Member агрегирует учётные данные и профиль участника магазина.
type Member struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	Address      Address
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin сообщает, есть ли у участника права администратора.
func (m Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// ValidateUsername проверяет username в фиксированном порядке:
// сначала пустое значение, затем длина. Пробелы по краям не считаются.
// Хранилище здесь не участвует, поэтому длинный username отклоняется
// до любых запросов к БД.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrUsernameRequired
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return ErrInvalidUsernameLength
	}
	return nil
}

// JoinInput - данные для регистрации нового участника.
type JoinInput struct {
	Email    string
	Password string
	Username string
	Name     string
	Address  Address
}

// Normalize убирает пробелы по краям email, username и имени.
// Длина и уникальность проверяются уже по нормализованным значениям.
func (in JoinInput) Normalize() JoinInput {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	return in
}

// Validate выполняет проверки, не требующие обращения к хранилищу.
func (in JoinInput) Validate() error {
	if strings.TrimSpace(in.Email) == "" {
		return ErrEmailRequired
	}
	if in.Password == "" {
		return ErrPasswordRequired
	}
	return ValidateUsername(in.Username)
}
