// Package i18n loads the operator-facing translation files under kalbos/
// (key=value pairs, one language per file) and resolves a key against a
// requested language with English as the fallback. Parsing follows the same
// permissive line-by-line KEY=VALUE convention as internal/settings: a
// malformed line is skipped, never fatal.
package i18n

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Catalog holds every loaded language's key=value translation map.
type Catalog struct {
	langs map[string]map[string]string
}

// LoadDir reads every "<code>.txt" file directly under dir into the
// catalog. A missing directory or missing language file yields an empty
// catalog for that language, not an error — translation is a convenience,
// not a boot-blocking dependency.
func LoadDir(dir string) (*Catalog, error) {
	c := &Catalog{langs: make(map[string]map[string]string)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		code := strings.TrimSuffix(e.Name(), ".txt")
		m, err := parseFile(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		c.langs[code] = m
	}
	return c, nil
}

func parseFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		m[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return m, scanner.Err()
}

// Translate resolves key in lang, falling back to "en", then to the raw key
// itself if no catalog carries it.
func (c *Catalog) Translate(lang, key string) string {
	if c == nil {
		return key
	}
	if m, ok := c.langs[lang]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := c.langs["en"]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}

// Languages returns the set of language codes with a loaded file.
func (c *Catalog) Languages() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.langs))
	for code := range c.langs {
		out = append(out, code)
	}
	return out
}
