// Package validation содержит чистые предикаты для проверки входных данных.
//
// Предикаты никогда не паникуют и не возвращают ошибок: отсутствующее значение
// (пустая строка) просто не проходит проверку. Регулярные выражения зафиксированы,
// от их побайтового совпадения зависит совместимость с клиентами.
package validation

import (
	"cmp"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MinPasswordLength — минимальная длина пароля.
	MinPasswordLength = 8
	// PasswordSpecialChars — символы, засчитываемые как специальные.
	PasswordSpecialChars = "!@#$%^&*()_+=|<>?{}[]~-"
)

var (
	emailPattern      = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@([A-Za-z0-9-]+\.)+[A-Za-z]{2,}$`)
	phonePattern      = regexp.MustCompile(`^\+?\d{7,15}$`)
	uuidPattern       = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	postalCodePattern = regexp.MustCompile(`^[0-9A-Za-z]{3,10}$`)
	whitespace        = regexp.MustCompile(`\s`)
)

// Number — числовые типы, с которыми работают IsPositive и IsPositiveOrZero.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// IsValidEmail проверяет структуру адреса электронной почты.
func IsValidEmail(email string) bool {
	return email != "" && emailPattern.MatchString(email)
}

// IsValidPhone проверяет номер телефона: необязательный "+" и от 7 до 15 цифр.
// Пробелы не удаляются: номер с пробелами не проходит проверку.
func IsValidPhone(phone string) bool {
	return phone != "" && phonePattern.MatchString(phone)
}

// IsValidUUID проверяет каноническую запись UUID 8-4-4-4-12 без учёта регистра.
func IsValidUUID(id string) bool {
	return id != "" && uuidPattern.MatchString(id)
}

// IsStrongPassword: не короче MinPasswordLength, есть заглавная и строчная латинские
// буквы и цифра.
func IsStrongPassword(password string) bool {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return false
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return upper && lower && digit
}

// IsVeryStrongPassword — IsStrongPassword плюс хотя бы один символ из PasswordSpecialChars.
func IsVeryStrongPassword(password string) bool {
	return IsStrongPassword(password) && strings.ContainsAny(password, PasswordSpecialChars)
}

// PasswordRequirements возвращает текст требований к паролю.
func PasswordRequirements() string {
	return fmt.Sprintf(
		"Password must be at least %d characters long and include an uppercase letter, a lowercase letter and a digit.",
		MinPasswordLength,
	)
}

// NormalizeEmail обрезает пробелы и приводит адрес к нижнему регистру.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsLengthBetween проверяет длину строки в символах, границы включены.
func IsLengthBetween(s string, minLen, maxLen int) bool {
	n := utf8.RuneCountInString(s)
	return n >= minLen && n <= maxLen
}

// IsInRange проверяет minValue <= v <= maxValue. NaN не входит ни в один диапазон.
func IsInRange[T cmp.Ordered](v, minValue, maxValue T) bool {
	return v >= minValue && v <= maxValue
}

// IsBlank сообщает, что строка пуста или состоит из пробельных символов.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func IsPositive[T Number](v T) bool {
	return v > 0
}

func IsPositiveOrZero[T Number](v T) bool {
	return v >= 0
}

// IsValidPostalCode проверяет почтовый индекс: 3-10 латинских букв или цифр,
// пробельные символы игнорируются.
func IsValidPostalCode(code string) bool {
	return code != "" && postalCodePattern.MatchString(whitespace.ReplaceAllString(code, ""))
}

// MaskEmail скрывает локальную часть адреса для логов: "j***@example.com".
// Некорректный адрес маскируется целиком.
func MaskEmail(email string) string {
	if !IsValidEmail(email) {
		return "***"
	}
	at := strings.LastIndexByte(email, '@')
	first, _ := utf8.DecodeRuneInString(email)
	return string(first) + "***" + email[at:]
}
