package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMessageNotFound is returned by MessageCatalog when no locale candidate
// carries the key.
var ErrMessageNotFound = errors.New("dashboard: message not found")

// TranslationService resolves widget labels and control messages for a
// viewer locale. go-cms style engines satisfy it; MessageCatalog is the
// in-memory implementation.
type TranslationService interface {
	Translate(ctx context.Context, key, locale string, args map[string]any) (string, error)
}

// MessageCatalog maps locale -> message key -> text. Lookups try the full
// locale, then its base language, then "default". Args fill {name}
// placeholders.
type MessageCatalog map[string]map[string]string

// Translate implements TranslationService.
func (c MessageCatalog) Translate(_ context.Context, key, locale string, args map[string]any) (string, error) {
	for _, candidate := range localeCandidates(locale) {
		for loc, messages := range c {
			if normalizeLocale(loc) != candidate {
				continue
			}
			if msg := messages[key]; msg != "" {
				return interpolate(msg, args), nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s (%s)", ErrMessageNotFound, key, locale)
}

func interpolate(msg string, args map[string]any) string {
	if len(args) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(args[k]))
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

// ResolveLocalizedValue picks the value for locale from a localized field,
// falling back from `es-mx` to `es`, then to "default", then to fallback.
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	for _, candidate := range localeCandidates(locale) {
		for key, value := range values {
			if value != "" && normalizeLocale(key) == candidate {
				return value
			}
		}
	}
	return fallback
}

func (def *WidgetDefinition) normalizeLocalizedFields() {
	def.NameLocalized = normalizeLocaleMap(def.NameLocalized)
	def.DescriptionLocalized = normalizeLocaleMap(def.DescriptionLocalized)
}

// NameForLocale returns the display name for locale.
func (def WidgetDefinition) NameForLocale(locale string) string {
	return ResolveLocalizedValue(def.NameLocalized, locale, def.Name)
}

// DescriptionForLocale returns the description for locale.
func (def WidgetDefinition) DescriptionForLocale(locale string) string {
	return ResolveLocalizedValue(def.DescriptionLocalized, locale, def.Description)
}

func normalizeLocaleMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]string, len(values))
	for key, value := range values {
		if key = normalizeLocale(key); key != "" && value != "" {
			out[key] = value
		}
	}
	return out
}

func localeCandidates(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return []string{"default"}
	}
	out := []string{locale}
	if base, _, ok := strings.Cut(locale, "-"); ok && base != "" {
		out = append(out, base)
	}
	return append(out, "default")
}

func normalizeLocale(locale string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(locale)), "_", "-")
}

// translateOrFallback returns the translation of key, then fallback, then the
// key itself.
func translateOrFallback(ctx context.Context, svc TranslationService, key, locale, fallback string, params map[string]any) string {
	if msg := localizedMessage(ctx, svc, key, locale, "", params); msg != "" {
		return msg
	}
	if fallback != "" {
		return fallback
	}
	return key
}

// localizedMessage prefers an explicitly configured message, then the
// translation of key. It returns "" when neither exists so engine defaults
// apply.
func localizedMessage(ctx context.Context, svc TranslationService, key, locale, configured string, params map[string]any) string {
	if configured != "" {
		return configured
	}
	if svc == nil {
		return ""
	}
	msg, err := svc.Translate(ctx, key, locale, params)
	if err != nil {
		return ""
	}
	return msg
}
