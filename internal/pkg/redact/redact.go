// redact маскирует чувствительные значения перед записью в лог.
package redact

import "unicode/utf8"

// Token возвращает литерал-заглушку вместо токена.
func Token() string { return "[REDACTED_TOKEN]" }

// Password возвращает литерал-заглушку вместо пароля.
func Password() string { return "[REDACTED_PASSWORD]" }

// Tail оставляет первые и последние 4 символа, середину скрывает.
// Короткие строки (<= 10 рун) скрываются целиком.
func Tail(s string) string {
	if utf8.RuneCountInString(s) <= 10 {
		return "****"
	}

	r := []rune(s)
	return string(r[:4]) + "…" + string(r[len(r)-4:])
}

// Username скрывает имя пользователя, оставляя первые две руны.
func Username(s string) string {
	r := []rune(s)
	if len(r) <= 2 {
		return "***"
	}

	return string(r[:2]) + "***"
}
