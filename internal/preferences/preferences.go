// preferences — пользовательские настройки интерфейса (язык и тема).
// Хранятся в том же Store, что и токены, но под собственными ключами
// и не зависят от сессии.
package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/pribylovaa/jobfeed/internal/credstore"
	"golang.org/x/text/language"
)

const (
	LocaleEN = "en"
	LocalePL = "pl"

	ThemeLight = "light"
	ThemeDark  = "dark"
)

var (
	// ErrInvalidLocale — язык не поддерживается.
	ErrInvalidLocale = errors.New("unsupported locale")
	// ErrInvalidTheme — неизвестная тема.
	ErrInvalidTheme = errors.New("unsupported theme")
)

// supported — порядок важен: первый тег используется по умолчанию.
var supported = []language.Tag{language.English, language.Polish}

var matcher = language.NewMatcher(supported)

// Preferences — настройки интерфейса.
type Preferences struct {
	Locale string
	Theme  string
}

// Default — настройки по умолчанию.
func Default() Preferences {
	return Preferences{Locale: LocaleEN, Theme: ThemeLight}
}

// Tag — языковой тег для форматирования сообщений.
func (p Preferences) Tag() language.Tag {
	if p.Locale == LocalePL {
		return language.Polish
	}
	return language.English
}

// MatchLocale приводит BCP 47 тег или значение Accept-Language
// ("pl-PL", "en-GB,en;q=0.8") к поддерживаемому языку.
func MatchLocale(raw string) (string, error) {
	const op = "preferences.MatchLocale"

	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return "", fmt.Errorf("%s: %w: %q", op, ErrInvalidLocale, raw)
	}

	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return "", fmt.Errorf("%s: %w: %q", op, ErrInvalidLocale, raw)
	}

	base, _ := supported[idx].Base()
	return base.String(), nil
}

// Negotiate выбирает язык по Accept-Language; при неудаче язык по умолчанию.
func Negotiate(acceptLanguage string) string {
	if loc, err := MatchLocale(acceptLanguage); err == nil {
		return loc
	}
	return LocaleEN
}

// ValidateTheme проверяет значение темы.
func ValidateTheme(theme string) error {
	switch theme {
	case ThemeLight, ThemeDark:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
}

// Load читает настройки. Отсутствующие значения заменяются значениями
// по умолчанию; found=false, если язык ещё ни разу не сохранялся.
func Load(ctx context.Context, s credstore.Store) (p Preferences, found bool, err error) {
	const op = "preferences.Load"

	p = Default()

	locale, ok, err := s.Get(ctx, credstore.KeyLocale)
	if err != nil {
		return p, false, fmt.Errorf("%s: locale: %w", op, err)
	}
	if ok {
		if loc, mErr := MatchLocale(locale); mErr == nil {
			p.Locale = loc
			found = true
		}
	}

	theme, ok, err := s.Get(ctx, credstore.KeyTheme)
	if err != nil {
		return p, found, fmt.Errorf("%s: theme: %w", op, err)
	}
	if ok && ValidateTheme(theme) == nil {
		p.Theme = theme
	}

	return p, found, nil
}

// Save проверяет и сохраняет настройки одной записью. Пустое поле
// оставляет сохранённое значение без изменений.
func Save(ctx context.Context, s credstore.Store, p Preferences) (Preferences, error) {
	const op = "preferences.Save"

	values := make(map[string]string, 2)

	if p.Locale != "" {
		loc, err := MatchLocale(p.Locale)
		if err != nil {
			return Preferences{}, fmt.Errorf("%s: %w", op, err)
		}
		values[credstore.KeyLocale] = loc
	}

	if p.Theme != "" {
		if err := ValidateTheme(p.Theme); err != nil {
			return Preferences{}, fmt.Errorf("%s: %w", op, err)
		}
		values[credstore.KeyTheme] = p.Theme
	}

	if len(values) > 0 {
		if err := s.Set(ctx, values); err != nil {
			return Preferences{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	out, _, err := Load(ctx, s)
	if err != nil {
		return Preferences{}, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}
