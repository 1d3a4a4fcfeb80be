package feed

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/pribylovaa/jobfeed/internal/models"
	"github.com/pribylovaa/jobfeed/internal/pkg/log"
	"github.com/pribylovaa/jobfeed/internal/query"
	"golang.org/x/sync/errgroup"
)

// FilterOptions — каталог секций панели фильтров с данными бэкенда.
type FilterOptions struct {
	Sections []query.Section
	Stats    *models.Stats
}

// FilterOptions параллельно запрашивает агрегаты и даты и подставляет их
// в секции skills и scraped_date. При ошибке возвращается статичный каталог
// вместе с ошибкой: панель остаётся рабочей.
func (c *Controller) FilterOptions(ctx context.Context) (FilterOptions, error) {
	const op = "feed.FilterOptions"

	out := FilterOptions{Sections: query.Sections()}

	var (
		stats *models.Stats
		dates []time.Time
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		start := time.Now()
		var err error
		stats, err = c.jobs.Stats(gctx, "")
		c.metrics.ObserveFetch("stats", time.Since(start), err)
		return err
	})

	g.Go(func() error {
		start := time.Now()
		var err error
		dates, err = c.jobs.Dates(gctx)
		c.metrics.ObserveFetch("dates", time.Since(start), err)
		return err
	})

	if err := g.Wait(); err != nil {
		log.From(ctx).Warn("filter_options_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return out, fmt.Errorf("%s: %w", op, err)
	}

	out.Stats = stats

	for i := range out.Sections {
		switch out.Sections[i].ID {
		case query.FieldSkills:
			out.Sections[i].Options = skillOptions(stats.TopSkills)
		case query.FieldScrapedDate:
			out.Sections[i].Options = dateOptions(dates)
		}
	}

	return out, nil
}

// skillOptions — навыки по убыванию частоты, при равенстве по имени.
func skillOptions(top map[string]int) []query.Option {
	names := make([]string, 0, len(top))
	for name := range top {
		names = append(names, name)
	}

	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(top[b], top[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	out := make([]query.Option, 0, len(names))
	for _, n := range names {
		out = append(out, query.Option{Value: n, Label: n})
	}

	return out
}

// dateOptions — даты в том порядке, в каком их отдал бэкенд.
func dateOptions(dates []time.Time) []query.Option {
	out := make([]query.Option, 0, len(dates))
	for _, d := range dates {
		out = append(out, query.Option{
			Value: d.Format(time.DateOnly),
			Label: d.Format("02.01.2006"),
		})
	}

	return out
}
