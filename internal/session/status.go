package session

import (
	"context"
	"fmt"
	"time"

	"github.com/pribylovaa/jobfeed/internal/credstore"
	"github.com/pribylovaa/jobfeed/internal/token"
)

// Status — снимок сессии для CLI (jobfeed status).
type Status struct {
	Signal    Signal
	HasTokens bool
	// Expiry — срок access-токена; нулевой, если токен нечитаем или отсутствует.
	Expiry time.Time
}

// Describe выполняет Check и дополняет результат сроком действия токена.
func (m *Manager) Describe(ctx context.Context) (Status, error) {
	const op = "session.Describe"

	sig := m.Check(ctx)

	creds, err := credstore.LoadCredentials(ctx, m.store)
	if err != nil {
		return Status{Signal: sig}, fmt.Errorf("%s: %w", op, err)
	}

	st := Status{Signal: sig, HasTokens: creds.Complete()}
	if exp, err := token.ExpiryOf(creds.Access); err == nil {
		st.Expiry = exp
	}

	return st, nil
}
