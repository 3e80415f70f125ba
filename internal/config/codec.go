package config

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgerlanc/sitehelper/internal/logger"
)

// Parse decodes config text. It never fails: comments, blank lines, lines
// before the first section header and lines without '=' are skipped.
func Parse(data []byte) *Config {
	cfg := &Config{}
	var current *Section

	for n, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") && len(line) >= 2 {
			current = nil
			if name := strings.TrimSpace(line[1 : len(line)-1]); name != "" {
				current = cfg.EnsureSection(name)
			}
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" || current == nil {
			logger.Debug("skipping config line", "line", n+1)
			continue
		}
		current.Set(key, unescape(strings.TrimSpace(value)))
	}

	return cfg
}

// Encode serializes cfg as section headers followed by key=value lines, with
// a blank line after each section. Values are escaped so Parse restores them
// exactly.
func Encode(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	for _, s := range cfg.sections {
		if err := validateSectionName(s.Name); err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "[%s]\n", s.Name)
		for _, e := range s.entries {
			if err := validateKey(e.key); err != nil {
				return nil, fmt.Errorf("section %q: %w", s.Name, err)
			}
			if !utf8.ValidString(e.value) {
				return nil, fmt.Errorf("section %q key %q: %w", s.Name, e.key, ErrInvalidValue)
			}
			buf.WriteString(e.key)
			buf.WriteByte('=')
			buf.WriteString(escape(e.value))
			buf.WriteByte('\n')
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func validateSectionName(name string) error {
	switch {
	case name == "",
		strings.TrimSpace(name) != name,
		strings.Contains(name, "\n"),
		!utf8.ValidString(name):
		return fmt.Errorf("section %q: %w", name, ErrInvalidName)
	}
	return nil
}

func validateKey(key string) error {
	switch {
	case key == "",
		strings.TrimSpace(key) != key,
		strings.ContainsAny(key, "=\n"),
		strings.HasPrefix(key, "#"),
		!utf8.ValidString(key):
		return fmt.Errorf("key %q: %w", key, ErrInvalidName)
	}
	return nil
}

// escape is the inverse of unescape. Whitespace at either end is escaped
// because Parse trims values before unescaping them, and a trailing ']' is
// escaped so a line whose key starts with '[' is never read as a header.
func escape(s string) string {
	first, last := edgeSpace(s)

	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == ']' && i == len(s)-1:
			b.WriteString(`\x5d`)
		case r < 0x20 || r == 0x7f || (unicode.IsSpace(r) && (i < first || i >= last)):
			if r <= 0xff {
				fmt.Fprintf(&b, `\x%02x`, r)
			} else {
				fmt.Fprintf(&b, `\u%04x`, r)
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// edgeSpace returns the byte offsets of the first and one past the last
// non-space rune in s.
func edgeSpace(s string) (int, int) {
	trimmedLeft := strings.TrimLeftFunc(s, unicode.IsSpace)
	first := len(s) - len(trimmedLeft)
	last := len(strings.TrimRightFunc(s, unicode.IsSpace))
	if last < first {
		last = first
	}
	return first, last
}

// unescape converts literal backslash escape sequences into the characters
// they name. Unknown or truncated sequences are kept as written.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}

		next := s[i+1]
		switch next {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '\\', '\'', '"':
			b.WriteByte(next)
		case 'x', 'u', 'U':
			width := hexWidth[next]
			r, ok := hexRune(s, i+2, width)
			if !ok {
				b.WriteByte(c)
				continue
			}
			b.WriteRune(r)
			i += width
		case '0', '1', '2', '3', '4', '5', '6', '7':
			end := i + 1
			for end < len(s) && end < i+4 && s[end] >= '0' && s[end] <= '7' {
				end++
			}
			v, _ := strconv.ParseUint(s[i+1:end], 8, 32)
			b.WriteRune(rune(v))
			i = end - 1
			continue
		default:
			b.WriteByte(c)
			continue
		}
		i++
	}
	return b.String()
}

var hexWidth = map[byte]int{'x': 2, 'u': 4, 'U': 8}

func hexRune(s string, start, width int) (rune, bool) {
	if start+width > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[start:start+width], 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return 0, false
	}
	return rune(v), true
}
