package i18n

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/it"
)

var pluralRules = map[string]locales.Translator{
	"it": it.New(),
	"en": en.New(),
}

// Plural returns the key.one or key.other message for n, with {n} replaced.
func Plural(locale, key string, n int) string {
	b, err := Load(locale)
	if err != nil {
		return strconv.Itoa(n)
	}

	form := ".other"
	if rules, ok := pluralRules[locale]; ok && rules.CardinalPluralRule(float64(n), 0) == locales.PluralRuleOne {
		form = ".one"
	}
	return strings.ReplaceAll(b.T(key+form), "{n}", strconv.Itoa(n))
}

// TimeAgo describes how long before now t happened.
func TimeAgo(locale string, t, now time.Time) string {
	d := now.Sub(t)
	hours := int(d.Hours())

	switch {
	case d < time.Minute:
		b, err := Load(locale)
		if err != nil {
			return t.Format(time.DateTime)
		}
		return b.T("time.just_now")
	case d < time.Hour:
		return Plural(locale, "time.minutes_ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return Plural(locale, "time.hours_ago", hours)
	case d < 30*24*time.Hour:
		return Plural(locale, "time.days_ago", hours/24)
	case d < 365*24*time.Hour:
		return Plural(locale, "time.months_ago", hours/(24*30))
	default:
		return Plural(locale, "time.years_ago", hours/(24*365))
	}
}
