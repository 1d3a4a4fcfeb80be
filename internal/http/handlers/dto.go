package handlers

import (
	"time"

	"github.com/pribylovaa/jobfeed/internal/feed"
	"github.com/pribylovaa/jobfeed/internal/models"
	"github.com/pribylovaa/jobfeed/internal/query"
)

// JSON-представления для клиентов с Accept: application/json.

type applicationResponse struct {
	ID          int64     `json:"id"`
	JobID       int64     `json:"job_id"`
	Status      string    `json:"status"`
	AppliedDate time.Time `json:"applied_date"`
}

type jobResponse struct {
	ID            int64                `json:"id"`
	Title         string               `json:"title"`
	Company       string               `json:"company,omitempty"`
	Location      string               `json:"location,omitempty"`
	OperatingMode string               `json:"operating_mode,omitempty"`
	Experience    string               `json:"experience,omitempty"`
	Source        string               `json:"source,omitempty"`
	Salary        string               `json:"salary,omitempty"`
	URL           string               `json:"url,omitempty"`
	Skills        map[string]string    `json:"skills,omitempty"`
	ScrapedDate   *time.Time           `json:"scraped_date,omitempty"`
	Application   *applicationResponse `json:"application,omitempty"`
}

type feedResponse struct {
	Query    string        `json:"query"`
	Cursor   string        `json:"cursor,omitempty"`
	Count    int           `json:"count"`
	Next     *string       `json:"next"`
	Previous *string       `json:"previous"`
	Results  []jobResponse `json:"results"`
	Error    string        `json:"error,omitempty"`
}

func toApplicationResponse(a models.Application) applicationResponse {
	return applicationResponse{ID: a.ID, JobID: a.JobID, Status: a.Status, AppliedDate: a.AppliedDate}
}

func toFeedResponse(st feed.State) feedResponse {
	out := feedResponse{
		Query:   query.Encode(st.Filters),
		Cursor:  st.Cursor,
		Error:   st.Err,
		Results: []jobResponse{},
	}

	if st.Result == nil {
		return out
	}

	out.Count = st.Result.Count
	out.Next = st.Result.Next
	out.Previous = st.Result.Previous

	for _, j := range st.Result.Items {
		jr := jobResponse{
			ID:            j.ID,
			Title:         j.Title,
			Company:       j.Company,
			Location:      j.Location,
			OperatingMode: j.OperatingMode,
			Experience:    j.Experience,
			Source:        j.Source,
			Salary:        j.Salary,
			URL:           j.URL,
			Skills:        j.Skills,
		}
		if !j.ScrapedDate.IsZero() {
			d := j.ScrapedDate
			jr.ScrapedDate = &d
		}
		if j.Application != nil {
			a := toApplicationResponse(*j.Application)
			jr.Application = &a
		}
		out.Results = append(out.Results, jr)
	}

	return out
}

type countResponse struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type dashboardResponse struct {
	Skill      string          `json:"skill,omitempty"`
	Last7Days  int             `json:"last_7_days"`
	Last30Days int             `json:"last_30_days"`
	Salary     string          `json:"salary,omitempty"`
	Skills     []countResponse `json:"top_skills"`
	Experience []countResponse `json:"experience"`
	Sources    []countResponse `json:"sources"`
	Modes      []countResponse `json:"operating_modes"`
}

func toCounts(in []feed.Count) []countResponse {
	out := make([]countResponse, 0, len(in))
	for _, c := range in {
		out = append(out, countResponse{Label: c.Label, Count: c.N})
	}
	return out
}

func toDashboardResponse(d feed.Dashboard) dashboardResponse {
	return dashboardResponse{
		Skill:      d.Skill,
		Last7Days:  d.Last7Days,
		Last30Days: d.Last30Days,
		Salary:     d.Salary,
		Skills:     toCounts(d.Skills),
		Experience: toCounts(d.Experience),
		Sources:    toCounts(d.Sources),
		Modes:      toCounts(d.Modes),
	}
}
