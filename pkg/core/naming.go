package core

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SlugLength is the number of title characters kept in a file name.
const SlugLength = 20

// Slug returns the first SlugLength characters of title, counted in runes after
// NFC composition so multibyte titles never split a character. Path separators
// and control characters are replaced so the result is a single file name.
func Slug(title string) string {
	runes := []rune(norm.NFC.String(title))
	if len(runes) > SlugLength {
		runes = runes[:SlugLength]
	}
	for i, r := range runes {
		switch {
		case r == '/' || r == '\\' || r == 0:
			runes[i] = '-'
		case r < 0x20 || r == 0x7f:
			runes[i] = ' '
		}
	}
	return string(runes)
}

// ValidateID rejects identifiers that cannot be a file name prefix.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidID)
	}
	if strings.ContainsAny(id, "_/\\*?[]{}") || strings.TrimSpace(id) != id {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// UniquePlatforms drops empty and repeated names while keeping first-seen order.
func UniquePlatforms(platforms []string) []string {
	out := make([]string, 0, len(platforms))
	seen := make(map[string]bool, len(platforms))
	for _, p := range platforms {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
