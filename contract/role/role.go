// Package role описывает роли вызывающих и заголовки, в которых шлюз передаёт
// уже аутентифицированную личность вызывающего.
package role

import (
	"errors"
	"fmt"
	"strings"
)

// Заголовки, которые шлюз проставляет после проверки токена.
const (
	HeaderAuthorization = "Authorization"
	HeaderUserID        = "X-User-Id"
	HeaderUserEmail     = "X-User-Email"
	HeaderUserRole      = "X-User-Role"

	BearerPrefix = "Bearer "
)

// Role — роль вызывающего.
type Role string

const (
	User  Role = "USER"
	Admin Role = "ADMIN"
)

// ErrUnknownRole возвращается при разборе неизвестной роли.
var ErrUnknownRole = errors.New("unknown role")

var descriptions = map[Role]string{
	User:  "Standard user",
	Admin: "System administrator",
}

// ParseRole разбирает код роли без учёта регистра.
func ParseRole(code string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(code)))
	if _, ok := descriptions[r]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, code)
	}
	return r, nil
}

func (r Role) IsAdmin() bool { return r == Admin }
func (r Role) IsUser() bool  { return r == User }

// Description возвращает человекочитаемое описание роли.
func (r Role) Description() string {
	return descriptions[r]
}

func (r Role) String() string {
	return string(r)
}

// Caller — личность вызывающего, уже проверенная шлюзом.
type Caller struct {
	UserID string
	Role   Role
}

// Anonymous сообщает, что личность вызывающего не передана.
func (c Caller) Anonymous() bool {
	return c.UserID == ""
}

// CanAccess сообщает, может ли вызывающий работать с ресурсом владельца ownerID.
// Администратор имеет доступ ко всему, пользователь только к своему.
func (c Caller) CanAccess(ownerID string) bool {
	if c.Anonymous() {
		return false
	}
	return c.Role.IsAdmin() || c.UserID == ownerID
}

// BearerToken достаёт токен из значения заголовка Authorization.
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(BearerPrefix):])
	return token, token != ""
}
