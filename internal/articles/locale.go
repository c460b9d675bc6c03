package articles

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// Index order matters: the first tag is the fallback.
var displayTags = []language.Tag{language.Spanish, language.English}

var displayMatcher = language.NewMatcher(displayTags)

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// DisplayDate formats t as a long human-readable date for locale, e.g.
// "19 de octubre de 2026" (es) or "October 19, 2026" (en).
func DisplayDate(t time.Time, locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Spanish
	}
	_, idx, _ := displayMatcher.Match(tag)
	switch displayTags[idx] {
	case language.English:
		return fmt.Sprintf("%s %d, %d", t.Month(), t.Day(), t.Year())
	default:
		return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
	}
}
