package query

// Option — вариант значения в секции фильтра.
type Option struct {
	Value string
	Label string
}

// Section — секция панели фильтров. Skills и ScrapedDate заполняются
// данными бэкенда (агрегаты и даты), остальные варианты статичны.
type Section struct {
	ID          Field
	Title       string
	DefaultOpen bool
	Options     []Option
}

// Sections возвращает новую копию каталога секций в порядке отображения.
func Sections() []Section {
	return []Section{
		{
			ID: FieldOperatingMode, Title: "Operating mode", DefaultOpen: true,
			Options: []Option{
				{Value: "Remote", Label: "Remote"},
				{Value: "Hybrid", Label: "Hybrid"},
				{Value: "Office", Label: "Office"},
			},
		},
		{
			ID: FieldExperience, Title: "Experience", DefaultOpen: true,
			Options: []Option{
				{Value: "trainee", Label: "Trainee"},
				{Value: "junior", Label: "Junior"},
				{Value: "mid", Label: "Mid"},
				{Value: "senior", Label: "Senior"},
				{Value: "expert", Label: "Expert"},
			},
		},
		{ID: FieldSkills, Title: "Skills", DefaultOpen: true},
		{
			ID: FieldLocation, Title: "Location",
			Options: []Option{
				{Value: "Warszawa", Label: "Warszawa"},
				{Value: "Kraków", Label: "Kraków"},
				{Value: "Wrocław", Label: "Wrocław"},
				{Value: "Poznań", Label: "Poznań"},
				{Value: "Gdańsk", Label: "Gdańsk"},
			},
		},
		{ID: FieldScrapedDate, Title: "Posted since"},
		{
			ID: FieldSource, Title: "Source",
			Options: []Option{
				{Value: "Pracuj.pl", Label: "Pracuj.pl"},
				{Value: "NoFluffJobs", Label: "NoFluffJobs"},
				{Value: "JustJoinIT", Label: "JustJoinIT"},
				{Value: "TheProtocol", Label: "TheProtocol"},
			},
		},
	}
}
