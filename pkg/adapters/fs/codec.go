package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/pressroom/pkg/core"
	"gopkg.in/yaml.v3"
)

// Marker delimits the metadata block. Only the first two occurrences count;
// any later marker line belongs to the body.
const Marker = "---"

var (
	errUnterminated = errors.New("metadata block started but no closing delimiter found")
	errNoBlock      = errors.New("file has no metadata block")
)

// Codec reads and writes the content file format:
//
//	---
//	id: 001
//	title: "Hello"
//	status: drafting
//	platforms: ["twitter"]
//	created: "2026-01-02"
//	---
//
//	# Hello
//
//	body
type Codec struct{}

// Parse reads a content file into a Record. Source is left empty.
func (Codec) Parse(data []byte) (core.Record, error) {
	rec := core.Record{
		Status:    core.DefaultStatus,
		Platforms: []string{},
	}

	lines := strings.Split(string(data), "\n")
	start, end, err := metadataBounds(lines)
	if err != nil {
		return core.Record{}, err
	}

	var body []string
	for i, raw := range lines {
		line := strings.TrimSuffix(raw, "\r")
		switch {
		case start >= 0 && i >= start && i <= end:
			if i == start || i == end {
				continue
			}
			if err := applyField(&rec, line); err != nil {
				return core.Record{}, err
			}
		default:
			body = append(body, line)
		}
	}

	// Serialize only writes a heading for a title held in the metadata block.
	// A title borrowed from the body leaves the body as is; the heading may be
	// a platform marker.
	metaTitle := rec.Title
	if rec.Title == "" {
		for _, line := range body {
			if strings.HasPrefix(line, "# ") {
				rec.Title = strings.TrimSpace(line[2:])
				break
			}
		}
	}

	rec.Body = trimBody(body, metaTitle)
	return rec, nil
}

// metadataBounds returns the line indexes of the opening and closing markers,
// or -1, -1 if the file has no metadata block. The opening marker must be the
// first non-blank line.
func metadataBounds(lines []string) (start, end int, err error) {
	start, end = -1, -1
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if start < 0 {
			if line == "" {
				continue
			}
			if line != Marker {
				return -1, -1, nil
			}
			start = i
			continue
		}
		if line == Marker {
			return start, i, nil
		}
	}
	if start >= 0 {
		return -1, -1, errUnterminated
	}
	return -1, -1, nil
}

func applyField(rec *core.Record, line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return fmt.Errorf("malformed metadata line %q", line)
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	var err error
	switch key {
	case "id":
		rec.ID, err = decodeScalar(value)
	case "title":
		rec.Title, err = decodeScalar(value)
	case "status":
		var s string
		s, err = decodeScalar(value)
		rec.Status = core.Status(s)
	case "created":
		rec.Created, err = decodeScalar(value)
	case "platforms":
		var list []string
		list, err = decodeList(value)
		rec.Platforms = core.UniquePlatforms(list)
	case "images":
		rec.Images, err = decodeList(value)
	default:
		rec.Extra = append(rec.Extra, core.Field{Key: key, Value: value})
	}
	if err != nil {
		return fmt.Errorf("field %s: %w", key, err)
	}
	return nil
}

// decodeScalar unquotes YAML/JSON quoted strings and returns bare values as is,
// so an id such as 007 is never read as a number.
func decodeScalar(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if value[0] != '"' && value[0] != '\'' {
		return value, nil
	}
	var s string
	if err := yaml.Unmarshal([]byte(value), &s); err != nil {
		return "", fmt.Errorf("invalid quoted value %s: %w", value, err)
	}
	return s, nil
}

func decodeList(value string) ([]string, error) {
	if value == "" {
		return nil, nil
	}
	var list []string
	if err := yaml.Unmarshal([]byte(value), &list); err != nil {
		return nil, fmt.Errorf("invalid list %s: %w", value, err)
	}
	return list, nil
}

// trimBody drops surrounding blank lines and, when title is set, the leading
// title heading that Serialize writes, so parse and serialize round-trip.
func trimBody(lines []string, title string) string {
	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if title != "" && i < len(lines) && strings.TrimSpace(lines[i]) == "# "+heading(title) {
		i++
		for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
			i++
		}
	}
	return strings.TrimRight(strings.Join(lines[i:], "\n"), "\n")
}

// Serialize writes rec in field order id, title, status, platforms, created,
// followed by images and any unrecognised fields in their original order.
func (Codec) Serialize(rec core.Record) ([]byte, error) {
	status := rec.Status
	if status == "" {
		status = core.DefaultStatus
	}

	var buf bytes.Buffer
	buf.WriteString(Marker + "\n")
	fmt.Fprintf(&buf, "id: %s\n", rec.ID)
	fmt.Fprintf(&buf, "title: %s\n", Quote(rec.Title))
	fmt.Fprintf(&buf, "status: %s\n", status)
	fmt.Fprintf(&buf, "platforms: %s\n", FormatList(rec.Platforms))
	fmt.Fprintf(&buf, "created: %s\n", Quote(rec.Created))
	if len(rec.Images) > 0 {
		fmt.Fprintf(&buf, "images: %s\n", FormatList(rec.Images))
	}
	for _, f := range rec.Extra {
		fmt.Fprintf(&buf, "%s: %s\n", f.Key, f.Value)
	}
	buf.WriteString(Marker + "\n\n")

	if rec.Title != "" {
		fmt.Fprintf(&buf, "# %s\n\n", heading(rec.Title))
	}
	if rec.Body != "" {
		buf.WriteString(strings.TrimRight(rec.Body, "\n"))
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// SetField replaces the value of key inside the metadata block, or inserts
// the line before the closing marker if key is absent. Every other byte of
// data is preserved.
func (Codec) SetField(data []byte, key, value string) ([]byte, error) {
	if key == "" || strings.ContainsAny(key, ":\n") {
		return nil, fmt.Errorf("invalid metadata key %q", key)
	}
	if strings.ContainsAny(value, "\r\n") {
		return nil, fmt.Errorf("metadata value for %s spans lines", key)
	}

	lines := strings.Split(string(data), "\n")
	start, end, err := metadataBounds(lines)
	if err != nil {
		return nil, err
	}
	if start < 0 {
		return nil, errNoBlock
	}

	// Every line carrying key is rewritten: Parse keeps the last one, so a
	// repeated key must not leave a stale value behind.
	replacement := key + ": " + value
	replaced := false
	for i := start + 1; i < end; i++ {
		line := lines[i]
		k, _, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(k) != key {
			continue
		}
		if strings.HasSuffix(line, "\r") {
			lines[i] = replacement + "\r"
		} else {
			lines[i] = replacement
		}
		replaced = true
	}
	if replaced {
		return []byte(strings.Join(lines, "\n")), nil
	}

	if strings.HasSuffix(lines[end], "\r") {
		replacement += "\r"
	}
	lines = append(lines[:end], append([]string{replacement}, lines[end:]...)...)
	return []byte(strings.Join(lines, "\n")), nil
}

// Quote renders s as a double-quoted scalar readable by both YAML and JSON.
func Quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// FormatList renders a JSON-style string list, e.g. ["twitter", "zhihu"].
func FormatList(list []string) string {
	quoted := make([]string, len(list))
	for i, s := range list {
		quoted[i] = Quote(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// heading flattens a title onto one line.
func heading(title string) string {
	return strings.Join(strings.Fields(title), " ")
}
