package publish

import (
	"context"

	"github.com/aretw0/pressroom/pkg/segment"
)

// Payload is what a Publisher receives for one platform.
type Payload struct {
	Platform string
	Title    string
	Text     string
	Images   []string
	// Fields carries the same values under the key names each adapter family
	// expects, e.g. "twitter_text" or "title".
	Fields map[string]string
}

// Result is the outcome of one platform call.
type Result struct {
	Success  bool   `json:"success"`
	RemoteID string `json:"remote_id,omitempty"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`

	// Err wraps core.ErrAdapterFailure when Success is false.
	Err error `json:"-"`
}

// Publisher is the external capability that talks to a platform.
// Implementations must honour ctx; the coordinator abandons calls that outlive it.
type Publisher interface {
	IsConfigured(platform string) bool
	Post(ctx context.Context, platform string, p Payload) (Result, error)
}

// articleFamilies take a separate title alongside the text.
var articleFamilies = map[string]bool{
	segment.LinkedIn:    true,
	segment.Zhihu:       true,
	segment.Xiaohongshu: true,
}

// shape builds the payload for platform, naming the text key after it.
func shape(platform, title, text string, images []string) Payload {
	fields := map[string]string{platform + "_text": text}
	if articleFamilies[platform] {
		fields["title"] = title
	}
	return Payload{
		Platform: platform,
		Title:    title,
		Text:     text,
		Images:   append([]string(nil), images...),
		Fields:   fields,
	}
}
