package backend

import (
	"strings"
	"time"

	"github.com/pribylovaa/jobfeed/internal/models"
)

// Модели провода: зеркалят JSON бэкенда.

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type pairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

type registerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type jobDTO struct {
	ID            int64             `json:"id"`
	Title         string            `json:"title"`
	Company       string            `json:"company"`
	Location      string            `json:"location"`
	OperatingMode string            `json:"operating_mode"`
	Experience    string            `json:"experience"`
	Source        string            `json:"source"`
	Salary        string            `json:"salary"`
	URL           string            `json:"url"`
	Description   string            `json:"description"`
	Summary       string            `json:"summary"`
	Skills        map[string]string `json:"skills"`
	ScrapedDate   string            `json:"scraped_date"`
}

type pageDTO struct {
	Results  []jobDTO `json:"results"`
	Next     *string  `json:"next"`
	Previous *string  `json:"previous"`
	Count    int      `json:"count"`
}

type applicationDTO struct {
	ID          int64   `json:"id"`
	JobID       int64   `json:"job_id"`
	Job         *jobDTO `json:"job"`
	Status      string  `json:"status"`
	AppliedDate string  `json:"applied_date"`
}

type createApplicationRequest struct {
	JobID int64 `json:"job_id"`
}

type statsDTO struct {
	TopSkills          map[string]int `json:"top_skills"`
	ExpStats           map[string]int `json:"exp_stats"`
	SourceStats        map[string]int `json:"source_stats"`
	OperatingModeStats map[string]int `json:"operating_mode_stats"`
	SalaryStats        string         `json:"salary_stats"`
	Trends             struct {
		Last7Days  int `json:"last_7_days"`
		Last30Days int `json:"last_30_days"`
	} `json:"trends"`
}

// Бэкенд отдаёт даты то как date, то как datetime.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02",
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}

	return time.Time{}
}

func (d jobDTO) toModel() models.Job {
	return models.Job{
		ID:            d.ID,
		Title:         d.Title,
		Company:       d.Company,
		Location:      d.Location,
		OperatingMode: d.OperatingMode,
		Experience:    d.Experience,
		Source:        d.Source,
		Salary:        d.Salary,
		URL:           d.URL,
		Description:   d.Description,
		Summary:       d.Summary,
		Skills:        d.Skills,
		ScrapedDate:   parseTime(d.ScrapedDate),
	}
}

func (d pageDTO) toModel() *models.FeedPage {
	items := make([]models.Job, 0, len(d.Results))
	for _, j := range d.Results {
		items = append(items, j.toModel())
	}

	return &models.FeedPage{
		Items:    items,
		Next:     nonEmpty(d.Next),
		Previous: nonEmpty(d.Previous),
		Count:    d.Count,
	}
}

func (d applicationDTO) toModel() models.Application {
	jobID := d.JobID
	if jobID == 0 && d.Job != nil {
		jobID = d.Job.ID
	}

	return models.Application{
		ID:          d.ID,
		JobID:       jobID,
		Status:      d.Status,
		AppliedDate: parseTime(d.AppliedDate),
	}
}

func (d statsDTO) toModel() *models.Stats {
	return &models.Stats{
		TopSkills:          d.TopSkills,
		ExperienceStats:    d.ExpStats,
		SourceStats:        d.SourceStats,
		OperatingModeStats: d.OperatingModeStats,
		Salary:             d.SalaryStats,
		Last7Days:          d.Trends.Last7Days,
		Last30Days:         d.Trends.Last30Days,
	}
}

// nonEmpty превращает "" в nil: пустой курсор означает отсутствие страницы.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}

	v := *s
	return &v
}
