package material

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Link is material referenced by a web link. The page is not fetched; the
// content asks the learner for a transcript or notes.
type Link struct {
	URL   string
	Title string
}

func (l Link) Load(context.Context) (Material, error) {
	raw := strings.TrimSpace(l.URL)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Material{}, fmt.Errorf("%w: only http(s) links are supported, got %q", ErrUnsupported, l.URL)
	}

	title := l.Title
	if title == "" {
		title = "Web Material from " + strings.ToLower(u.Host)
	}
	return Material{
		Title: title,
		Content: fmt.Sprintf("Study material link: %s. Please provide the transcript or key notes from the link "+
			"so the tutor can explain and quiz accurately.", raw),
		Kind: KindLink,
	}, nil
}
