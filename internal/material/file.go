package material

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	textExts   = extSet(".txt", ".md", ".csv", ".json", ".py", ".rst")
	slideExts  = extSet(".ppt", ".pptx", ".pdf")
	mediaExts  = extSet(".mp3", ".wav", ".m4a", ".mp4", ".mov", ".mkv", ".avi", ".webm")
	slideNote  = "Slides were uploaded. Please provide extracted text or speaker notes so the tutor can explain the material and generate accurate quizzes and flashcards."
	mediaNote  = "Audio or video was uploaded. Automatic transcription is not configured. Please paste a transcript to continue."
)

// maxFileLen bounds both material files and a single line of content.
const maxFileLen = 4 << 20

func extSet(exts ...string) map[string]bool {
	m := make(map[string]bool, len(exts))
	for _, e := range exts {
		m[e] = true
	}
	return m
}

// File is material read from a local file. Text formats are read as is;
// slides and media produce a placeholder asking for extracted text.
// Files with an unknown extension are classified by content sniffing.
type File struct {
	Path  string
	Title string
}

func (f File) Load(ctx context.Context) (Material, error) {
	if err := ctx.Err(); err != nil {
		return Material{}, err
	}

	info, err := os.Stat(f.Path)
	if err != nil {
		return Material{}, fmt.Errorf("open material: %w", err)
	}
	if info.IsDir() {
		return Material{}, fmt.Errorf("%w: %s is a directory", ErrUnsupported, f.Path)
	}
	if info.Size() > maxFileLen {
		return Material{}, fmt.Errorf("%w: %s is larger than %d bytes", ErrUnsupported, f.Path, maxFileLen)
	}

	title := f.Title
	if title == "" {
		base := filepath.Base(f.Path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	kind, err := classify(f.Path)
	if err != nil {
		return Material{}, err
	}

	switch kind {
	case KindSlides:
		return Material{Title: title, Content: slideNote, Kind: kind}, nil
	case KindMedia:
		return Material{Title: title, Content: mediaNote, Kind: kind}, nil
	}

	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return Material{}, fmt.Errorf("read material: %w", err)
	}
	return Material{
		Title:   title,
		Content: strings.ToValidUTF8(string(raw), ""),
		Kind:    KindText,
	}, nil
}

// classify decides the material kind from the extension, falling back to
// the detected MIME type.
func classify(path string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case textExts[ext]:
		return KindText, nil
	case slideExts[ext]:
		return KindSlides, nil
	case mediaExts[ext]:
		return KindMedia, nil
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("detect material type: %w", err)
	}
	for m := mt; m != nil; m = m.Parent() {
		switch {
		case m.Is("text/plain"):
			return KindText, nil
		case m.Is("application/pdf"),
			m.Is("application/vnd.openxmlformats-officedocument.presentationml.presentation"),
			m.Is("application/vnd.ms-powerpoint"):
			return KindSlides, nil
		case strings.HasPrefix(m.String(), "audio/"), strings.HasPrefix(m.String(), "video/"):
			return KindMedia, nil
		}
	}
	return "", fmt.Errorf("%w: file type %s (%s)", ErrUnsupported, ext, mt.String())
}
