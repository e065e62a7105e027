// Package segment splits a content body into per-platform sections.
//
// A section starts at a marker heading and runs until the next marker:
//
//	intro (belongs to no platform)
//	# 🐦 Thread
//	text for twitter
//	# 💼 Post
//	text for linkedin
package segment

import "strings"

// Platform names recognised by the segmenter.
const (
	Twitter     = "twitter"
	LinkedIn    = "linkedin"
	Zhihu       = "zhihu"
	Xiaohongshu = "xiaohongshu"
)

// Marker pairs a heading prefix with the platform it introduces.
type Marker struct {
	Prefix   string
	Platform string
}

var markers = []Marker{
	{Prefix: "# 🐦 ", Platform: Twitter},
	{Prefix: "# 💼 ", Platform: LinkedIn},
	{Prefix: "# 📖 ", Platform: Zhihu},
	{Prefix: "# 📕 ", Platform: Xiaohongshu},
}

// Markers returns the fixed marker table.
func Markers() []Marker {
	out := make([]Marker, len(markers))
	copy(out, markers)
	return out
}

// Platforms returns the platform names in marker order.
func Platforms() []string {
	out := make([]string, len(markers))
	for i, m := range markers {
		out[i] = m.Platform
	}
	return out
}

// Match returns the platform a line switches to, if it is a marker.
func Match(line string) (string, bool) {
	for _, m := range markers {
		if strings.HasPrefix(line, m.Prefix) {
			return m.Platform, true
		}
	}
	return "", false
}

// Segment maps each platform to the lines that follow its marker.
// Lines before the first marker are dropped; callers fall back to the whole
// body for platforms missing from the result. A marker with no following lines
// adds no entry, and a repeated marker restarts that platform's text.
func Segment(body string) map[string]string {
	out := make(map[string]string)
	var (
		current string
		acc     []string
	)
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if p, ok := Match(line); ok {
			current = p
			acc = acc[:0]
			continue
		}
		if current == "" {
			continue
		}
		acc = append(acc, line)
		out[current] = strings.Join(acc, "\n")
	}
	return out
}

// Text returns the section for platform, or the whole body if there is none.
func Text(sections map[string]string, platform, body string) string {
	if t := sections[platform]; t != "" {
		return t
	}
	return body
}
