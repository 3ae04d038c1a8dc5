package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"sync"
)

//go:embed locales/*.json
var localeFS embed.FS

// ErrLocaleNotFound is returned for locales without a message bundle.
var ErrLocaleNotFound = errors.New("locale not found")

var SupportedLocales = []string{"it", "en"}

// Bundle maps message keys to translated text.
type Bundle map[string]string

// T returns the message for key, or the key itself when missing.
func (b Bundle) T(key string) string {
	if msg, ok := b[key]; ok {
		return msg
	}
	return key
}

var (
	mu      sync.RWMutex
	bundles = map[string]Bundle{}
)

// Load returns the bundle of a supported locale.
func Load(locale string) (Bundle, error) {
	if !IsSupported(locale) {
		return nil, fmt.Errorf("%w: %q", ErrLocaleNotFound, locale)
	}

	mu.RLock()
	b, ok := bundles[locale]
	mu.RUnlock()
	if ok {
		return b, nil
	}

	data, err := fs.ReadFile(localeFS, "locales/"+locale+".json")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrLocaleNotFound, locale)
	}

	b = Bundle{}
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse %s bundle: %w", locale, err)
	}

	mu.Lock()
	bundles[locale] = b
	mu.Unlock()

	return b, nil
}

func IsSupported(locale string) bool {
	return slices.Contains(SupportedLocales, locale)
}
