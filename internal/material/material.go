// Package material normalizes study material into a titled body of text
// and splits it into topics for teaching.
package material

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported is returned for source types and file formats that
// cannot be turned into study material.
var ErrUnsupported = errors.New("unsupported material")

// Kind classifies where material came from.
type Kind string

const (
	KindRawText Kind = "raw_text"
	KindText    Kind = "text_file"
	KindSlides  Kind = "slides_file"
	KindMedia   Kind = "media_file"
	KindLink    Kind = "web_link"
)

// Material is normalized study material.
type Material struct {
	Title   string
	Content string
	Kind    Kind
}

// Placeholder reports whether Content is a request for the learner to
// supply text rather than real material.
func (m Material) Placeholder() bool {
	switch m.Kind {
	case KindSlides, KindMedia, KindLink:
		return true
	}
	return false
}

// Provider loads study material.
type Provider interface {
	Load(ctx context.Context) (Material, error)
}

// Source types accepted by New.
const (
	SourceRawText = "raw_text"
	SourceFile    = "file"
	SourceLink    = "web_link"
)

// New returns the provider for a source type. Title overrides the derived
// title when non-empty.
func New(sourceType, payload, title string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(sourceType)) {
	case SourceRawText, "text":
		return Text{Body: payload, Title: title}, nil
	case SourceFile:
		return File{Path: payload, Title: title}, nil
	case SourceLink, "link", "url":
		return Link{URL: payload, Title: title}, nil
	}
	return nil, fmt.Errorf("%w: source type %q (use raw_text, file or web_link)", ErrUnsupported, sourceType)
}

// DefaultTextTitle titles pasted text when none is given.
const DefaultTextTitle = "Uploaded Notes"

// Text is material pasted directly by the learner.
type Text struct {
	Body  string
	Title string
}

func (t Text) Load(context.Context) (Material, error) {
	body := strings.TrimSpace(t.Body)
	if body == "" {
		return Material{}, errors.New("material text is empty")
	}
	title := t.Title
	if title == "" {
		title = DefaultTextTitle
	}
	return Material{Title: title, Content: body, Kind: KindRawText}, nil
}
