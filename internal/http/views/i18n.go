package views

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// polish — переводы интерфейсных строк. Ключ — английский текст.
var polish = map[string]string{
	"Job offers":                           "Oferty pracy",
	"Job market":                           "Rynek pracy",
	"Overview":                             "Przegląd",
	"Market overview":                      "Przegląd rynku",
	"Last 7 days":                          "Ostatnie 7 dni",
	"Last 30 days":                         "Ostatnie 30 dni",
	"%d jobs":                              "%d ofert",
	"Average salary":                       "Średnie wynagrodzenie",
	"Not available":                        "Brak danych",
	"Most in-demand skills":                "Najbardziej poszukiwane umiejętności",
	"Experience":                           "Doświadczenie",
	"Work mode":                            "Tryb pracy",
	"Sources":                              "Źródła",
	"Unspecified":                          "Nieokreślone",
	"Failed to load dashboard data.":       "Nie udało się wczytać danych.",
	"My applications":                      "Moje aplikacje",
	"Sign in":                              "Zaloguj się",
	"Sign out":                             "Wyloguj się",
	"Create account":                       "Załóż konto",
	"Username":                             "Nazwa użytkownika",
	"Password":                             "Hasło",
	"Search":                               "Szukaj",
	"Filters":                              "Filtry",
	"Apply filters":                        "Zastosuj filtry",
	"Discard changes":                      "Odrzuć zmiany",
	"Clear all":                            "Wyczyść wszystko",
	"Previous":                             "Poprzednia",
	"Next":                                 "Następna",
	"Retry":                                "Spróbuj ponownie",
	"Apply":                                "Aplikuj",
	"Withdraw":                             "Wycofaj",
	"Applied":                              "Zaaplikowano",
	"Loading…":                             "Ładowanie…",
	"No job offers match these filters.":   "Brak ofert pasujących do filtrów.",
	"You have not applied to any job yet.": "Nie zaaplikowano jeszcze na żadną ofertę.",
	"%d job offers":                        "Liczba ofert: %d",
	"Language":                             "Język",
	"Theme":                                "Motyw",
	"Save":                                 "Zapisz",
	"Something went wrong":                 "Coś poszło nie tak",
	"Back to job offers":                   "Wróć do ofert",
	"Status":                               "Status",
	"Applied on":                           "Data aplikacji",
	"Job":                                  "Oferta",
}

var messages = func() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range polish {
		_ = b.SetString(language.Polish, key, msg)
	}
	return b
}()

func newPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(messages))
}
