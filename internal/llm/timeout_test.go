package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

// blockingProvider waits for its context to end.
type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestWithTimeout_Deadline(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 10*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
	if p.ModelID() != "blocking" {
		t.Errorf("ModelID = %q, want %q", p.ModelID(), "blocking")
	}
}

func TestWithTimeout_Disabled(t *testing.T) {
	inner := NewMockProvider()
	if p := WithTimeout(inner, 0); p != Provider(inner) {
		t.Error("expected the provider to be returned unchanged for a zero timeout")
	}
}
