// models содержит доменные сущности клиента ленты вакансий.
// Эти типы используются слоями сессии, ленты, бэкенд-клиента и HTTP.
package models

import "time"

// Job — вакансия в том виде, в котором её отдаёт бэкенд.
type Job struct {
	ID            int64
	Title         string
	Company       string
	Location      string
	OperatingMode string
	Experience    string
	Source        string
	Salary        string
	URL           string
	Description   string
	Summary       string
	// Skills — навык -> уровень, как в исходных данных скрейпера.
	Skills      map[string]string
	ScrapedDate time.Time

	// Application — заявка текущего пользователя на эту вакансию (если есть).
	// Не является частью канонических данных вакансии: проставляется лентой.
	Application *Application
}

// Application statuses.
const (
	StatusApplied      = "APPLIED"
	StatusInterviewing = "INTERVIEWING"
	StatusRejected     = "REJECTED"
	StatusAccepted     = "ACCEPTED"
)

// Application — отклик пользователя на вакансию.
type Application struct {
	ID          int64
	JobID       int64
	Status      string
	AppliedDate time.Time
}

// FeedPage — страница ленты со ссылками на соседние страницы.
//
// Особенности:
//   - Next/Previous — непрозрачные курсоры бэкенда, nil если страницы нет;
//   - Count — общее число вакансий под фильтром, а не длина Items.
type FeedPage struct {
	Items    []Job
	Next     *string
	Previous *string
	Count    int
}

// Stats — агрегаты для построения опций фильтров.
type Stats struct {
	TopSkills          map[string]int
	ExperienceStats    map[string]int
	SourceStats        map[string]int
	OperatingModeStats map[string]int
	Salary             string
	Last7Days          int
	Last30Days         int
}
