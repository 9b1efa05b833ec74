package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_ReplaysScript(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	first, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(first.Content) != `{"a":1}` {
		t.Fatalf("first content = %s", first.Content)
	}
	if first.Usage.InputTokens != 10 {
		t.Fatalf("first usage = %+v, want 10 input tokens", first.Usage)
	}
	if first.StopReason != "end" {
		t.Fatalf("stop reason = %q, want \"end\"", first.StopReason)
	}

	second, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(second.Content) != `{"b":2}` {
		t.Fatalf("second content = %s", second.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("error = %T, want *ErrProviderUnavailable", err)
	}
}

func TestMockProvider_RecordsRequests(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})

	_, _ = mock.Generate(context.Background(), Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})

	if mock.CallCount() != 1 {
		t.Fatalf("got %d calls, want 1", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("recorded system = %q, want \"sys\"", mock.Calls[0].System)
	}
}

func TestMockProvider_ScriptedError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{}})
	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("error = %T, want *ErrRateLimit", err)
	}
}

func TestMockProvider_ModelID(t *testing.T) {
	if got := NewMockProvider().ModelID(); got != "mock" {
		t.Fatalf("ModelID() = %q, want \"mock\"", got)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("PurposeFrom(empty) = %q, want \"unknown\"", p)
	}
	if p := PurposeFrom(WithPurpose(ctx, "hint")); p != "hint" {
		t.Fatalf("PurposeFrom = %q, want \"hint\"", p)
	}
}
