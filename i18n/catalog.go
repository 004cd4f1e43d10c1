package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Locale is a BCP 47 tag for which translations exist.
type Locale string

const (
	ZhCN Locale = "zh-CN"
	En   Locale = "en"
)

// BaseLocale is used whenever a message is missing from the requested locale.
const BaseLocale = ZhCN

// Locales lists every supported locale; the base locale comes first.
var Locales = []Locale{ZhCN, En}

//go:embed locales/*.yml
var localeFiles embed.FS

// Default is the catalog built from the embedded locale files.
var Default = mustLoad(localeFiles, "locales")

// Catalog maps dotted message keys to translations, per locale. It is immutable once loaded.
type Catalog struct {
	messages map[Locale]map[string]*parsedMessage
	tags     map[Locale]language.Tag
	matcher  language.Matcher
}

func mustLoad(fsys fs.FS, dir string) *Catalog {
	c, err := Load(fsys, dir)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads one `<locale>.yml` file per supported locale from dir.
// Nested maps are flattened into dotted keys, e.g. `common.validations.required`.
func Load(fsys fs.FS, dir string) (*Catalog, error) {
	c := &Catalog{
		messages: make(map[Locale]map[string]*parsedMessage, len(Locales)),
		tags:     make(map[Locale]language.Tag, len(Locales)),
	}

	tags := make([]language.Tag, 0, len(Locales))
	for _, locale := range Locales {
		tag, err := language.Parse(string(locale))
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
		}
		c.tags[locale] = tag
		tags = append(tags, tag)

		buf, err := fs.ReadFile(fsys, path.Join(dir, string(locale)+".yml"))
		if err != nil {
			return nil, fmt.Errorf("Failed to read translations for %s: %w", locale, err)
		}
		var tree map[string]any
		if err := yaml.Unmarshal(buf, &tree); err != nil {
			return nil, fmt.Errorf("Failed to parse translations for %s: %w", locale, err)
		}

		messages := make(map[string]*parsedMessage)
		if err := flatten("", tree, messages); err != nil {
			return nil, fmt.Errorf("Invalid translations for %s: %w", locale, err)
		}
		c.messages[locale] = messages
	}
	c.matcher = language.NewMatcher(tags)
	return c, nil
}

func flatten(prefix string, tree map[string]any, out map[string]*parsedMessage) error {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = parseMessage(val)
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("key %s: expected a string or a map, got %T", key, v)
		}
	}
	return nil
}

// Keys returns all message keys of a locale, sorted.
func (c *Catalog) Keys(locale Locale) []string {
	keys := make([]string, 0, len(c.messages[locale]))
	for k := range c.messages[locale] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Params returns the placeholder names a message expects, or nil if the key is unknown.
func (c *Catalog) Params(locale Locale, key string) []string {
	if m, ok := c.messages[locale][key]; ok {
		return m.params()
	}
	return nil
}

// Match picks the best supported locale for an Accept-Language header.
// ok is false when nothing in the header matched.
func (c *Catalog) Match(acceptLanguage string) (locale Locale, ok bool) {
	if strings.TrimSpace(acceptLanguage) == "" {
		return BaseLocale, false
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return BaseLocale, false
	}
	_, index, confidence := c.matcher.Match(prefs...)
	if confidence == language.No {
		return BaseLocale, false
	}
	return Locales[index], true
}

// Negotiate is like [Catalog.Match], but falls back to the given locale instead of reporting failure.
func (c *Catalog) Negotiate(acceptLanguage string, fallback Locale) Locale {
	if locale, ok := c.Match(acceptLanguage); ok {
		return locale
	}
	if _, ok := c.messages[fallback]; ok {
		return fallback
	}
	return BaseLocale
}

// ParseLocale returns the supported locale matching s exactly (case-insensitively).
func ParseLocale(s string) (Locale, bool) {
	for _, l := range Locales {
		if strings.EqualFold(string(l), s) {
			return l, true
		}
	}
	return "", false
}

// Translator formats messages in one locale.
type Translator struct {
	catalog *Catalog
	locale  Locale
}

// Translator returns a [Translator] for the given locale; unsupported locales use [BaseLocale].
func (c *Catalog) Translator(locale Locale) *Translator {
	if _, ok := c.messages[locale]; !ok {
		locale = BaseLocale
	}
	return &Translator{catalog: c, locale: locale}
}

// Locale returns the locale this translator formats messages in.
func (t *Translator) Locale() Locale {
	return t.locale
}

// T formats the message for key. Missing messages fall back to the base locale,
// and then to the key itself; missing arguments render as empty strings.
func (t *Translator) T(key string, args ...Args) string {
	var merged Args
	switch len(args) {
	case 0:
	case 1:
		merged = args[0]
	default:
		merged = Args{}
		for _, a := range args {
			for k, v := range a {
				merged[k] = v
			}
		}
	}

	locale := t.locale
	m, ok := t.catalog.messages[locale][key]
	if !ok {
		locale = BaseLocale
		if m, ok = t.catalog.messages[locale][key]; !ok {
			return key
		}
	}
	return m.format(t.catalog.tags[locale], merged)
}
