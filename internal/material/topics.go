package material

import (
	"bufio"
	"strings"
)

// Topic is one teachable section of material.
type Topic struct {
	Title   string
	Content string
}

// Topics splits material into sections at Markdown headings. Text before
// the first heading, or material without headings, forms a topic titled
// after the material. Empty sections are dropped and repeated titles are
// merged into the first occurrence, so titles are unique.
func (m Material) Topics() []Topic {
	var (
		out   []Topic
		index = map[string]int{}
		title = m.Title
		body  strings.Builder
	)

	flush := func() {
		content := strings.TrimSpace(body.String())
		body.Reset()
		if content == "" {
			return
		}
		key := strings.ToLower(title)
		if i, ok := index[key]; ok {
			out[i].Content += "\n\n" + content
			return
		}
		index[key] = len(out)
		out = append(out, Topic{Title: title, Content: content})
	}

	sc := bufio.NewScanner(strings.NewReader(m.Content))
	sc.Buffer(make([]byte, 0, 64*1024), maxFileLen)
	for sc.Scan() {
		line := sc.Text()
		if h, ok := heading(line); ok {
			flush()
			title = h
			continue
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}
	flush()

	if len(out) == 0 && strings.TrimSpace(m.Content) != "" {
		out = append(out, Topic{Title: m.Title, Content: strings.TrimSpace(m.Content)})
	}
	return out
}

func heading(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, "#")
	level := len(line) - len(trimmed)
	if level == 0 || level > 6 || !strings.HasPrefix(trimmed, " ") {
		return "", false
	}
	title := strings.TrimSpace(trimmed)
	return title, title != ""
}

// MinSentenceLen is the length a sentence must exceed to be worth a
// flashcard or a question.
const MinSentenceLen = 40

// Sentences splits text into trimmed sentences longer than minLen
// characters. Line breaks are treated as spaces.
func Sentences(text string, minLen int) []string {
	text = strings.Join(strings.Fields(text), " ")
	var out []string
	start := 0
	for i, r := range text {
		end := -1
		switch r {
		case '.', '?', '!':
			if i+1 == len(text) || text[i+1] == ' ' {
				end = i + 1
			}
		}
		if end < 0 {
			continue
		}
		if s := strings.TrimSpace(text[start:end]); len(s) > minLen {
			out = append(out, s)
		}
		start = end
	}
	if s := strings.TrimSpace(text[start:]); len(s) > minLen {
		out = append(out, s)
	}
	return out
}
