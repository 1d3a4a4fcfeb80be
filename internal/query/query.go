// query переводит состояние фильтров ленты в строку запроса бэкенда и обратно.
//
// Формат фиксирован: скалярные поля в порядке title, location, operating_mode,
// experience, source, scraped_date (пустые пропускаются), затем по одному
// skills=<v> на каждый навык в порядке добавления. Значения экранируются
// один раз через url.QueryEscape.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Field — ключ фильтра на проводе.
type Field string

const (
	FieldTitle         Field = "title"
	FieldLocation      Field = "location"
	FieldOperatingMode Field = "operating_mode"
	FieldExperience    Field = "experience"
	FieldSource        Field = "source"
	FieldScrapedDate   Field = "scraped_date"
	FieldSkills        Field = "skills"
)

// scalarOrder — порядок скалярных ключей в закодированной строке.
var scalarOrder = []Field{
	FieldTitle,
	FieldLocation,
	FieldOperatingMode,
	FieldExperience,
	FieldSource,
	FieldScrapedDate,
}

var (
	// ErrUnknownField — поле фильтра не существует.
	ErrUnknownField = errors.New("unknown filter field")
	// ErrInvalidQuery — строку запроса не удалось разобрать.
	ErrInvalidQuery = errors.New("invalid query")
)

// FilterState — выбранные пользователем фильтры. "" означает «не задано».
// Skills — множество с порядком добавления.
type FilterState struct {
	Title         string
	Location      string
	OperatingMode string
	Experience    string
	Source        string
	ScrapedDate   string
	Skills        []string
}

// IsEmpty — ни один фильтр не выбран.
func (f FilterState) IsEmpty() bool {
	return Encode(f) == ""
}

// Get возвращает значение скалярного поля.
func (f FilterState) Get(field Field) string {
	switch field {
	case FieldTitle:
		return f.Title
	case FieldLocation:
		return f.Location
	case FieldOperatingMode:
		return f.OperatingMode
	case FieldExperience:
		return f.Experience
	case FieldSource:
		return f.Source
	case FieldScrapedDate:
		return f.ScrapedDate
	default:
		return ""
	}
}

// HasSkill — навык выбран.
func (f FilterState) HasSkill(skill string) bool {
	return slices.Contains(f.Skills, skill)
}

// Clone — глубокая копия (Skills не разделяется).
func (f FilterState) Clone() FilterState {
	f.Skills = slices.Clone(f.Skills)
	return f
}

// Encode строит строку запроса без ведущего "?". Пустое состояние даёт "".
func Encode(f FilterState) string {
	var b strings.Builder

	add := func(key Field, value string) {
		if value == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(string(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	for _, field := range scalarOrder {
		add(field, f.Get(field))
	}

	seen := make(map[string]struct{}, len(f.Skills))
	for _, s := range f.Skills {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		add(FieldSkills, s)
	}

	return b.String()
}

// Decode разбирает строку запроса (с "?" или без). Неизвестные ключи
// (page, cursor и т.п.) игнорируются, повторы навыков отбрасываются.
func Decode(raw string) (FilterState, error) {
	const op = "query.Decode"

	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return FilterState{}, fmt.Errorf("%s: %w: %v", op, ErrInvalidQuery, err)
	}

	return FromValues(values), nil
}

// FromValues собирает состояние из уже разобранных параметров (например, r.URL.Query()).
func FromValues(values url.Values) FilterState {
	f := FilterState{
		Title:         values.Get(string(FieldTitle)),
		Location:      values.Get(string(FieldLocation)),
		OperatingMode: values.Get(string(FieldOperatingMode)),
		Experience:    values.Get(string(FieldExperience)),
		Source:        values.Get(string(FieldSource)),
		ScrapedDate:   values.Get(string(FieldScrapedDate)),
	}

	for _, s := range values[string(FieldSkills)] {
		if s != "" && !f.HasSkill(s) {
			f.Skills = append(f.Skills, s)
		}
	}

	return f
}

// Toggle переключает значение поля: повторный выбор текущего значения
// сбрасывает его, для skills переключается членство во множестве.
func (f FilterState) Toggle(field Field, value string) (FilterState, error) {
	const op = "query.Toggle"

	next := f.Clone()

	if field == FieldSkills {
		if i := slices.Index(next.Skills, value); i >= 0 {
			next.Skills = slices.Delete(next.Skills, i, i+1)
		} else if value != "" {
			next.Skills = append(next.Skills, value)
		}
		return next, nil
	}

	if f.Get(field) == value {
		value = ""
	}

	if err := next.set(field, value); err != nil {
		return f, fmt.Errorf("%s: %w", op, err)
	}

	return next, nil
}

// SetTitle задаёт текстовый поиск (без переключения).
func (f FilterState) SetTitle(title string) FilterState {
	next := f.Clone()
	next.Title = strings.TrimSpace(title)
	return next
}

// Clear — пустое состояние.
func Clear() FilterState {
	return FilterState{}
}

func (f *FilterState) set(field Field, value string) error {
	switch field {
	case FieldTitle:
		f.Title = value
	case FieldLocation:
		f.Location = value
	case FieldOperatingMode:
		f.OperatingMode = value
	case FieldExperience:
		f.Experience = value
	case FieldSource:
		f.Source = value
	case FieldScrapedDate:
		f.ScrapedDate = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	return nil
}

// Chip — один активный фильтр (для отображения и точечного сброса).
type Chip struct {
	Field Field
	Value string
}

// Active перечисляет выбранные фильтры в порядке кодирования.
func (f FilterState) Active() []Chip {
	var out []Chip
	for _, field := range scalarOrder {
		if v := f.Get(field); v != "" {
			out = append(out, Chip{Field: field, Value: v})
		}
	}
	for _, s := range f.Skills {
		out = append(out, Chip{Field: FieldSkills, Value: s})
	}
	return out
}
