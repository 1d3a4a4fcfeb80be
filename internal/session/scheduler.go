package session

import (
	"context"
	"log/slog"
	"time"
)

// Run выполняет проверку сразу и затем раз в interval, пока ctx не отменён.
func (m *Manager) Run(ctx context.Context) {
	const op = "session.Run"

	lg := m.logger(ctx)
	lg.Info("session_scheduler_start",
		slog.String("op", op),
		slog.Duration("interval", m.interval),
		slog.Duration("renew_before", m.renewBefore),
	)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)

	for {
		select {
		case <-ctx.Done():
			lg.Info("session_scheduler_stop", slog.String("op", op))
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Start запускает Run в фоне. Повторный вызов без Stop ничего не делает.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	m.cancel = cancel
	m.done = done

	go func() {
		defer close(done)
		m.Run(ctx)
	}()
}

// Stop останавливает фоновую проверку и ждёт её завершения.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
}
