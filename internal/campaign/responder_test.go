package campaign

import (
	"context"
	"testing"

	"leadpilot/internal/gateway"
)

func sentLead() *Lead {
	return &Lead{
		FirstName:    "Ada",
		Email:        "ada@analytical.io",
		Persona:      "Technical Founder",
		EmailSubject: "Quick question",
		EmailBody:    "Would this help your team?",
		Status:       StatusSent,
	}
}

func TestSimulatedReplySource_Success(t *testing.T) {
	gw := &MockModelGateway{
		CompleteFunc: func(ctx context.Context, prompt string, opts gateway.CallOptions) (string, error) {
			return "Not a fit for us right now.", nil
		},
		CompleteCategoryFunc: func(ctx context.Context, prompt string, opts gateway.CallOptions) (gateway.Category, error) {
			return gateway.CategoryNotInterested, nil
		},
	}
	source := NewSimulatedReplySource(gw, nil)

	text, category, err := source.GetReply(context.Background(), sentLead())
	if err != nil {
		t.Fatalf("GetReply: %v", err)
	}
	if text != "Not a fit for us right now." {
		t.Errorf("text = %q", text)
	}
	if category != gateway.CategoryNotInterested {
		t.Errorf("category = %q, want %q", category, gateway.CategoryNotInterested)
	}
	if gw.Calls("complete") != 1 || gw.Calls("category") != 1 {
		t.Errorf("calls = complete:%d category:%d, want 1 each", gw.Calls("complete"), gw.Calls("category"))
	}
}

func TestSimulatedReplySource_ReplyFailureDegrades(t *testing.T) {
	gw := &MockModelGateway{
		CompleteFunc: func(ctx context.Context, prompt string, opts gateway.CallOptions) (string, error) {
			return "", gateway.ErrModelUnavailable
		},
	}
	source := NewSimulatedReplySource(gw, nil)

	text, category, err := source.GetReply(context.Background(), sentLead())
	if err != nil {
		t.Fatalf("GetReply should degrade, not fail: %v", err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty", text)
	}
	if category != gateway.CategoryNoResponse {
		t.Errorf("category = %q, want %q", category, gateway.CategoryNoResponse)
	}
	// Classification never runs when reply generation failed.
	if gw.Calls("category") != 0 {
		t.Errorf("classification ran %d times after reply failure", gw.Calls("category"))
	}
}

func TestSimulatedReplySource_ClassifyFailureDegrades(t *testing.T) {
	gw := &MockModelGateway{
		CompleteFunc: func(ctx context.Context, prompt string, opts gateway.CallOptions) (string, error) {
			return "Interesting, send details.", nil
		},
		CompleteCategoryFunc: func(ctx context.Context, prompt string, opts gateway.CallOptions) (gateway.Category, error) {
			return "", gateway.ErrModelResponseInvalid
		},
	}
	source := NewSimulatedReplySource(gw, nil)

	text, category, err := source.GetReply(context.Background(), sentLead())
	if err != nil {
		t.Fatalf("GetReply should degrade, not fail: %v", err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty when classification fails", text)
	}
	if category != gateway.CategoryNoResponse {
		t.Errorf("category = %q, want %q", category, gateway.CategoryNoResponse)
	}
}
