package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/pribylovaa/jobfeed/internal/query"
)

// Mode — когда изменения панели фильтров попадают в ленту.
type Mode string

const (
	// ModeImmediate — каждое изменение сразу перезагружает ленту.
	ModeImmediate Mode = "immediate"
	// ModeDeferred — изменения копятся до Confirm.
	ModeDeferred Mode = "deferred"
)

// Panel — панель фильтров поверх Controller.
type Panel struct {
	ctrl *Controller
	mode Mode

	mu      sync.Mutex
	pending query.FilterState
	dirty   bool
}

// NewPanel создаёт панель; неизвестный режим трактуется как immediate.
func NewPanel(ctrl *Controller, mode Mode) *Panel {
	if mode != ModeDeferred {
		mode = ModeImmediate
	}

	return &Panel{ctrl: ctrl, mode: mode}
}

func (p *Panel) Mode() Mode { return p.mode }

// Dirty — в deferred-режиме есть неподтверждённые изменения.
func (p *Panel) Dirty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirty
}

// Pending — состояние, которое видит пользователь в панели.
func (p *Panel) Pending() query.FilterState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentLocked()
}

func (p *Panel) currentLocked() query.FilterState {
	if p.dirty {
		return p.pending.Clone()
	}
	return p.ctrl.Snapshot().Filters
}

// Toggle переключает значение поля.
func (p *Panel) Toggle(ctx context.Context, field query.Field, value string) (State, error) {
	const op = "feed.Panel.Toggle"

	p.mu.Lock()
	next, err := p.currentLocked().Toggle(field, value)
	p.mu.Unlock()
	if err != nil {
		return p.ctrl.Snapshot(), fmt.Errorf("%s: %w", op, err)
	}

	return p.change(ctx, next)
}

// SetTitle задаёт текстовый поиск.
func (p *Panel) SetTitle(ctx context.Context, title string) (State, error) {
	p.mu.Lock()
	next := p.currentLocked().SetTitle(title)
	p.mu.Unlock()

	return p.change(ctx, next)
}

// Clear сбрасывает все фильтры.
func (p *Panel) Clear(ctx context.Context) (State, error) {
	return p.change(ctx, query.Clear())
}

// Replace подставляет состояние целиком (например, из строки запроса).
func (p *Panel) Replace(ctx context.Context, f query.FilterState) (State, error) {
	return p.change(ctx, f)
}

// Confirm применяет накопленные изменения (в immediate-режиме просто перезагрузка).
func (p *Panel) Confirm(ctx context.Context) (State, error) {
	p.mu.Lock()
	next := p.currentLocked()
	p.pending = query.FilterState{}
	p.dirty = false
	p.mu.Unlock()

	return p.ctrl.ApplyFilters(ctx, next)
}

// Discard отбрасывает неподтверждённые изменения.
func (p *Panel) Discard() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending = query.FilterState{}
	p.dirty = false
}

func (p *Panel) change(ctx context.Context, next query.FilterState) (State, error) {
	if p.mode == ModeImmediate {
		return p.ctrl.ApplyFilters(ctx, next)
	}

	p.mu.Lock()
	p.pending = next.Clone()
	p.dirty = true
	p.mu.Unlock()

	return p.ctrl.Snapshot(), nil
}
