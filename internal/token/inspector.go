// token читает срок действия access-токена без проверки подписи.
//
// Подпись проверяет бэкенд.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken — токен не удаётся разобрать как JWT или в нём нет exp.
var ErrMalformedToken = errors.New("malformed token")

var parser = jwt.NewParser()

// ExpiryOf возвращает момент истечения токена (claim exp, UTC).
func ExpiryOf(raw string) (time.Time, error) {
	const op = "token.ExpiryOf"

	if raw == "" {
		return time.Time{}, fmt.Errorf("%s: empty: %w", op, ErrMalformedToken)
	}

	var claims jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, fmt.Errorf("%s: %w: %v", op, ErrMalformedToken, err)
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%s: no exp claim: %w", op, ErrMalformedToken)
	}

	return claims.ExpiresAt.Time.UTC(), nil
}

// Remaining — сколько осталось до истечения относительно now.
// Отрицательное значение означает, что токен уже истёк.
func Remaining(raw string, now time.Time) (time.Duration, error) {
	exp, err := ExpiryOf(raw)
	if err != nil {
		return 0, err
	}

	return exp.Sub(now), nil
}
