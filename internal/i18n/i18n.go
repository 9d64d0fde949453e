// Package i18n loads the localized strings used by the tray menu.
package i18n

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Keys used by the tray menu. Every bundle must define all of them.
const (
	KeyShowMainWindow        = "traymenu.showMainWindow"
	KeyShowPreferencesWindow = "traymenu.showPreferencesWindow"
	KeyLockAllVaults         = "traymenu.lockAllVaults"
	KeyQuitApplication       = "traymenu.quitApplication"
	KeyVaultUnlock           = "traymenu.vault.unlock"
	KeyVaultLock             = "traymenu.vault.lock"
	KeyVaultReveal           = "traymenu.vault.reveal"
)

// RequiredKeys lists the keys checked by Load.
var RequiredKeys = []string{
	KeyShowMainWindow,
	KeyShowPreferencesWindow,
	KeyLockAllVaults,
	KeyQuitApplication,
	KeyVaultUnlock,
	KeyVaultLock,
	KeyVaultReveal,
}

//go:embed locales/*.yaml
var locales embed.FS

// Bundle is an immutable key → string table.
type Bundle struct {
	tag     language.Tag
	strings map[string]string
}

// Get returns the string for key, or the key itself if it is unknown.
func (b *Bundle) Get(key string) string {
	if s, ok := b.strings[key]; ok {
		return s
	}
	return key
}

// Language returns the bundle's language.
func (b *Bundle) Language() language.Tag {
	return b.tag
}

// Available returns the languages with an embedded bundle, English first.
func Available() []language.Tag {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		return []language.Tag{language.English}
	}

	tags := []language.Tag{language.English}
	var names []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".yaml")
		if name != "en" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if tag, err := language.Parse(name); err == nil {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Match picks the best embedded language for the preference list, e.g.
// "de-AT" or "fr_FR.UTF-8". Unparseable entries are ignored.
func Match(preferred ...string) language.Tag {
	available := Available()
	matcher := language.NewMatcher(available)

	var tags []language.Tag
	for _, p := range preferred {
		p = normalizeLocale(p)
		if p == "" {
			continue
		}
		if tag, err := language.Parse(p); err == nil {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return language.English
	}

	_, index, _ := matcher.Match(tags...)
	return available[index]
}

// normalizeLocale turns POSIX locales (de_DE.UTF-8@euro) into BCP 47.
func normalizeLocale(s string) string {
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "C" || s == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(s, "_", "-")
}

// SystemLocales returns the locale preferences from the environment.
func SystemLocales() []string {
	var out []string
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(env); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Load reads the embedded bundle for tag and checks that every required key
// is present.
func Load(tag language.Tag) (*Bundle, error) {
	base, _ := tag.Base()
	data, err := locales.ReadFile(path.Join("locales", base.String()+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("no bundle for language %s: %w", tag, err)
	}
	return parse(tag, data)
}

func parse(tag language.Tag, data []byte) (*Bundle, error) {
	strs := make(map[string]string)
	if err := yaml.Unmarshal(data, &strs); err != nil {
		return nil, fmt.Errorf("failed to parse bundle %s: %w", tag, err)
	}

	var missing []string
	for _, key := range RequiredKeys {
		if strings.TrimSpace(strs[key]) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("bundle %s is missing keys: %s", tag, strings.Join(missing, ", "))
	}

	return &Bundle{tag: tag, strings: strs}, nil
}

// LoadPreferred matches the preference list and loads that bundle.
func LoadPreferred(preferred ...string) (*Bundle, error) {
	return Load(Match(preferred...))
}
