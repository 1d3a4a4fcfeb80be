package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// sign — выпускает HS256-токен с заданными claims (подпись клиенту не важна).
func sign(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unit-secret"))
	require.NoError(t, err)
	return s
}

func TestExpiryOf_OK(t *testing.T) {
	t.Parallel()

	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	raw := sign(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})

	got, err := ExpiryOf(raw)
	require.NoError(t, err)
	require.True(t, exp.Equal(got))
}

// Уже истёкший токен не ошибка: решение принимает вызывающий.
func TestExpiryOf_ExpiredIsNotAnError(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(-time.Hour).Truncate(time.Second)
	raw := sign(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})

	got, err := ExpiryOf(raw)
	require.NoError(t, err)
	require.True(t, exp.Equal(got))
}

// Подпись не проверяется: токен, подписанный чужим ключом, читается.
func TestExpiryOf_IgnoresSignature(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("someone-elses-key"))
	require.NoError(t, err)

	got, err := ExpiryOf(raw)
	require.NoError(t, err)
	require.True(t, exp.Equal(got))
}

func TestExpiryOf_Malformed(t *testing.T) {
	t.Parallel()

	noExp := sign(t, jwt.RegisteredClaims{Subject: "42"})

	tests := []struct {
		name string
		in   string
	}{
		{name: "empty", in: ""},
		{name: "garbage", in: "not-a-jwt"},
		{name: "two_segments", in: "aaa.bbb"},
		{name: "bad_base64_payload", in: "eyJhbGciOiJIUzI1NiJ9.%%%.sig"},
		{name: "no_exp", in: noExp},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ExpiryOf(tt.in)
			require.ErrorIs(t, err, ErrMalformedToken)
		})
	}
}

func TestRemaining(t *testing.T) {
	t.Parallel()

	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	raw := sign(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(90 * time.Second))})

	left, err := Remaining(raw, now)
	require.NoError(t, err)
	require.Equal(t, 90*time.Second, left)

	_, err = Remaining("junk", now)
	require.ErrorIs(t, err, ErrMalformedToken)
}
