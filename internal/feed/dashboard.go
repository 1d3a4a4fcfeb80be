package feed

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/pribylovaa/jobfeed/internal/models"
	"github.com/pribylovaa/jobfeed/internal/pkg/log"
)

// DashboardSkillLimit — сколько навыков показывает таблица востребованности.
const DashboardSkillLimit = 10

// Count — подпись и число вакансий.
type Count struct {
	Label string
	N     int
}

// Dashboard — обзор рынка вакансий: агрегаты бэкенда, разложенные
// в отсортированные ряды для отображения.
type Dashboard struct {
	// Skill — срез по навыку; "" означает обзор всего рынка.
	Skill string

	Last7Days  int
	Last30Days int
	Salary     string

	Skills     []Count
	Experience []Count
	Sources    []Count
	Modes      []Count
}

// Dashboard запрашивает агрегаты рынка (при skill != "" только по вакансиям
// с этим навыком).
func (c *Controller) Dashboard(ctx context.Context, skill string) (Dashboard, error) {
	const op = "feed.Dashboard"

	skill = strings.TrimSpace(skill)

	start := time.Now()
	stats, err := c.jobs.Stats(ctx, skill)
	c.metrics.ObserveFetch("stats", time.Since(start), err)
	if err != nil {
		log.From(ctx).Warn("dashboard_load_failed",
			slog.String("op", op),
			slog.String("skill", skill),
			slog.String("err", err.Error()),
		)
		return Dashboard{Skill: skill}, fmt.Errorf("%s: %w", op, err)
	}

	return newDashboard(skill, stats), nil
}

func newDashboard(skill string, st *models.Stats) Dashboard {
	d := Dashboard{Skill: skill}
	if st == nil {
		return d
	}

	d.Last7Days = st.Last7Days
	d.Last30Days = st.Last30Days
	d.Salary = st.Salary

	d.Skills = ranked(st.TopSkills)
	if len(d.Skills) > DashboardSkillLimit {
		d.Skills = d.Skills[:DashboardSkillLimit]
	}
	d.Experience = ranked(st.ExperienceStats)
	d.Sources = ranked(st.SourceStats)
	d.Modes = ranked(st.OperatingModeStats)

	return d
}

// ranked — ряды по убыванию числа, при равенстве по подписи.
// Пустая подпись (бэкенд не знает значения) остаётся пустой строкой.
func ranked(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for label, n := range m {
		out = append(out, Count{Label: label, N: n})
	}

	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.N, a.N); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})

	return out
}
