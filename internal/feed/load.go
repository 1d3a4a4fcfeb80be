package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/jobfeed/internal/models"
	"github.com/pribylovaa/jobfeed/internal/pkg/log"
	"github.com/pribylovaa/jobfeed/internal/query"
	"golang.org/x/sync/errgroup"
)

// Load загружает страницу с текущими фильтрами. page — курсор
// (next/previous в том виде, в каком их вернул бэкенд) или "" для первой страницы.
func (c *Controller) Load(ctx context.Context, page string) (State, error) {
	c.mu.Lock()
	filters := c.state.Filters.Clone()
	c.mu.Unlock()

	return c.fetch(ctx, filters, page)
}

// ApplyFilters заменяет фильтры и загружает первую страницу.
func (c *Controller) ApplyFilters(ctx context.Context, f query.FilterState) (State, error) {
	return c.fetch(ctx, f.Clone(), "")
}

// GoToPage загружает страницу по курсору, сохраняя фильтры.
func (c *Controller) GoToPage(ctx context.Context, cursor string) (State, error) {
	return c.Load(ctx, cursor)
}

// Navigate загружает страницу с явно заданными фильтрами и курсором.
// Используется, когда состояние приходит из адресной строки (закладка, ссылка пагинации).
func (c *Controller) Navigate(ctx context.Context, f query.FilterState, cursor string) (State, error) {
	return c.fetch(ctx, f.Clone(), cursor)
}

// Retry повторяет последний запрос (те же фильтры и курсор).
func (c *Controller) Retry(ctx context.Context) (State, error) {
	c.mu.Lock()
	filters, cursor := c.state.Filters.Clone(), c.state.Cursor
	c.mu.Unlock()

	return c.fetch(ctx, filters, cursor)
}

// fetch выполняет основной запрос и, для авторизованного пользователя,
// параллельно запрос откликов. Фиксируется только результат последнего поколения.
func (c *Controller) fetch(ctx context.Context, filters query.FilterState, cursor string) (State, error) {
	const op = "feed.fetch"

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.state.Filters = filters
	c.state.Cursor = cursor
	c.state.Loading = true
	c.mu.Unlock()

	ctx, lg := log.With(ctx, slog.String("op", op), slog.Uint64("gen", gen))

	var (
		page    *models.FeedPage
		apps    []models.Application
		appsErr error
	)

	// Без WithContext: сбой разметки не должен отменять основной запрос.
	var g errgroup.Group

	g.Go(func() error {
		var err error
		page, err = c.primary(ctx, filters, cursor)
		return err
	})

	if c.authorized() {
		g.Go(func() error {
			start := time.Now()
			apps, appsErr = c.jobs.Applications(ctx)
			c.metrics.ObserveFetch("applications", time.Since(start), appsErr)
			return nil
		})
	}

	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		c.metrics.ObserveStale()
		lg.Debug("feed_response_stale", slog.Uint64("latest", c.gen))
		return c.snapshotLocked(), fmt.Errorf("%s: %w", op, ErrSuperseded)
	}

	c.state.Loading = false

	if err != nil {
		c.state.Result = nil
		c.state.Err = userMessage(err)
		lg.Warn("feed_load_failed", slog.String("err", err.Error()))
		return c.snapshotLocked(), fmt.Errorf("%s: %w", op, err)
	}

	if appsErr != nil {
		lg.Warn("feed_annotation_failed", slog.String("err", appsErr.Error()))
	} else {
		annotate(page, apps)
	}

	c.state.Result = page
	c.state.Err = ""

	lg.Debug("feed_loaded",
		slog.Int("items", len(page.Items)),
		slog.Int("count", page.Count),
	)

	return c.snapshotLocked(), nil
}

func (c *Controller) primary(ctx context.Context, filters query.FilterState, cursor string) (*models.FeedPage, error) {
	start := time.Now()

	if cursor == "" {
		page, err := c.jobs.ListJobs(ctx, query.Encode(filters))
		c.metrics.ObserveFetch("list", time.Since(start), err)
		return page, err
	}

	page, err := c.jobs.FetchPage(ctx, cursor)
	c.metrics.ObserveFetch("page", time.Since(start), err)
	return page, err
}

// annotate привязывает отклики к вакансиям по id.
func annotate(page *models.FeedPage, apps []models.Application) {
	if page == nil || len(apps) == 0 {
		return
	}

	byJob := make(map[int64]models.Application, len(apps))
	for _, a := range apps {
		byJob[a.JobID] = a
	}

	for i := range page.Items {
		if a, ok := byJob[page.Items[i].ID]; ok {
			page.Items[i].Application = &a
		}
	}
}
