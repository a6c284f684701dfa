package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func cardSchema() *Schema {
	return &Schema{
		Name: "flashcard",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"front": map[string]any{"type": "string"},
				"back":  map[string]any{"type": "string"},
			},
			"required":             []any{"front", "back"},
			"additionalProperties": false,
		},
	}
}

type scriptedVendor struct {
	r   reply
	err error
	got string
}

func (s *scriptedVendor) complete(_ context.Context, model string, _ Request) (reply, error) {
	s.got = model
	return s.r, s.err
}

func TestVendorProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty request", func(t *testing.T) {
		p := &vendorProvider{model: "m", v: &scriptedVendor{}}
		if _, err := p.Generate(ctx, Request{}); !errors.Is(err, errNoMessages) {
			t.Fatalf("err = %v, want errNoMessages", err)
		}
	})

	t.Run("plain text passes through", func(t *testing.T) {
		v := &scriptedVendor{r: reply{text: "hello", finish: StopMaxTokens}}
		p := &vendorProvider{model: "m", v: v}
		resp, err := p.Generate(ctx, UserPrompt("", "hi", nil, 4))
		if err != nil {
			t.Fatal(err)
		}
		if string(resp.Content) != "hello" || resp.Model != "m" || resp.StopReason != StopMaxTokens {
			t.Errorf("resp = %+v", resp)
		}
		if v.got != "m" {
			t.Errorf("vendor saw model %q", v.got)
		}
	})

	t.Run("truncated structured reply", func(t *testing.T) {
		p := &vendorProvider{model: "m", v: &scriptedVendor{r: reply{text: `{"front":`, finish: StopMaxTokens}}}
		_, err := p.Generate(ctx, UserPrompt("", "hi", cardSchema(), 4))
		var trunc *ErrMaxTokensExceeded
		if !errors.As(err, &trunc) {
			t.Fatalf("err = %v", err)
		}
		if Retryable(err) {
			t.Error("truncation should not be retryable")
		}
	})

	t.Run("vendor error surfaces", func(t *testing.T) {
		want := &ErrRateLimit{Err: errors.New("429")}
		p := &vendorProvider{model: "m", v: &scriptedVendor{err: want}}
		if _, err := p.Generate(ctx, UserPrompt("", "hi", nil, 4)); !errors.Is(err, want) {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestStripFence(t *testing.T) {
	tests := map[string]string{
		`{"a":1}`:                  `{"a":1}`,
		"```json\n{\"a\":1}\n```":  `{"a":1}`,
		"  ```\n[1,2]\n```  \n":    `[1,2]`,
		"not fenced ```":           "not fenced ```",
	}
	for in, want := range tests {
		if got := string(stripFence(json.RawMessage(in))); got != want {
			t.Errorf("stripFence(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.Canceled, false},
		{&ErrProviderUnavailable{Err: context.DeadlineExceeded}, false},
		{&ErrMaxTokensExceeded{}, false},
		{&ErrRateLimit{Err: errors.New("429")}, true},
		{&ErrInvalidResponse{Err: errors.New("bad")}, true},
		{errors.New("connection reset"), true},
	}
	for _, tt := range tests {
		if got := Retryable(tt.err); got != tt.want {
			t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
