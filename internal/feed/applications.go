package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/jobfeed/internal/backend"
	"github.com/pribylovaa/jobfeed/internal/models"
	"github.com/pribylovaa/jobfeed/internal/pkg/log"
)

// Apply откликается на вакансию. Разметка в текущем результате меняется
// сразу; при ошибке бэкенда прежнее значение возвращается на место.
func (c *Controller) Apply(ctx context.Context, jobID int64) (*models.Application, error) {
	const op = "feed.Apply"

	lg := log.From(ctx).With(slog.String("op", op), slog.Int64("job_id", jobID))

	optimistic := &models.Application{
		JobID:       jobID,
		Status:      models.StatusApplied,
		AppliedDate: c.now().UTC(),
	}

	prev, found := c.swapApplication(jobID, optimistic)
	if found && prev != nil {
		c.swapApplication(jobID, prev)
		return nil, fmt.Errorf("%s: %w", op, ErrAlreadyApplied)
	}

	app, err := c.jobs.CreateApplication(ctx, jobID)
	c.metrics.ObserveApplication("apply", err)
	if err != nil {
		c.swapApplication(jobID, prev)
		if errors.Is(err, backend.ErrConflict) {
			err = fmt.Errorf("%w: %w", ErrAlreadyApplied, err)
		}
		lg.Warn("apply_failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.swapApplication(jobID, app)
	lg.Info("apply_ok", slog.Int64("application_id", app.ID))

	return app, nil
}

// Unapply отзывает отклик. Вакансия остаётся в списке, снимается только разметка.
func (c *Controller) Unapply(ctx context.Context, jobID int64) error {
	const op = "feed.Unapply"

	lg := log.From(ctx).With(slog.String("op", op), slog.Int64("job_id", jobID))

	app, err := c.applicationFor(ctx, jobID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	prev, _ := c.swapApplication(jobID, nil)

	err = c.jobs.DeleteApplication(ctx, app.ID)
	c.metrics.ObserveApplication("unapply", err)
	if err != nil && !errors.Is(err, backend.ErrNotFound) {
		c.swapApplication(jobID, prev)
		lg.Warn("unapply_failed", slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("unapply_ok", slog.Int64("application_id", app.ID))

	return nil
}

// Applications — все отклики пользователя.
func (c *Controller) Applications(ctx context.Context) ([]models.Application, error) {
	const op = "feed.Applications"

	apps, err := c.jobs.Applications(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return apps, nil
}

// applicationFor ищет отклик сначала в текущем результате, затем у бэкенда.
func (c *Controller) applicationFor(ctx context.Context, jobID int64) (models.Application, error) {
	c.mu.Lock()
	if c.state.Result != nil {
		for _, j := range c.state.Result.Items {
			if j.ID == jobID && j.Application != nil && j.Application.ID != 0 {
				a := *j.Application
				c.mu.Unlock()
				return a, nil
			}
		}
	}
	c.mu.Unlock()

	apps, err := c.jobs.Applications(ctx)
	if err != nil {
		return models.Application{}, err
	}

	for _, a := range apps {
		if a.JobID == jobID {
			return a, nil
		}
	}

	return models.Application{}, ErrNotApplied
}

// swapApplication подменяет разметку вакансии в текущем результате.
// Возвращает прежнее значение и признак того, что вакансия найдена.
func (c *Controller) swapApplication(jobID int64, app *models.Application) (*models.Application, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Result == nil {
		return nil, false
	}

	for i := range c.state.Result.Items {
		job := &c.state.Result.Items[i]
		if job.ID != jobID {
			continue
		}

		prev := job.Application
		if app != nil {
			cp := *app
			job.Application = &cp
		} else {
			job.Application = nil
		}

		return prev, true
	}

	return nil, false
}
