package campaign

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"leadpilot/internal/gateway"
)

func TestEnricher_Success(t *testing.T) {
	gw := &MockModelGateway{
		CompleteProfileFunc: func(ctx context.Context, prompt string, opts gateway.CallOptions) (gateway.Profile, error) {
			return gateway.Profile{
				Persona:        "Operator",
				PersonaDesc:    "Runs the day-to-day",
				Priority:       5,
				PriorityReason: "Decision maker",
			}, nil
		},
		CompleteEmailFunc: func(ctx context.Context, prompt string, opts gateway.CallOptions) (gateway.EmailDraft, error) {
			return gateway.EmailDraft{Subject: "Hello Ada", Body: "One-line pitch."}, nil
		},
	}
	enricher := NewEnricher(gw, 3, nil)

	lead := &Lead{FirstName: "Ada", Email: "ada@analytical.io"}
	enricher.Enrich(context.Background(), lead)

	if lead.Persona != "Operator" || lead.Priority != 5 {
		t.Errorf("profile not merged: persona=%q priority=%d", lead.Persona, lead.Priority)
	}
	if lead.PersonaDesc != "Runs the day-to-day" || lead.PriorityReason != "Decision maker" {
		t.Errorf("profile detail not merged: desc=%q reason=%q", lead.PersonaDesc, lead.PriorityReason)
	}
	if lead.EmailSubject != "Hello Ada" || lead.EmailBody != "One-line pitch." {
		t.Errorf("draft not merged: subject=%q body=%q", lead.EmailSubject, lead.EmailBody)
	}
}

func TestEnricher_ProfileFallback(t *testing.T) {
	gw := &MockModelGateway{
		CompleteProfileFunc: func(ctx context.Context, prompt string, opts gateway.CallOptions) (gateway.Profile, error) {
			return gateway.Profile{}, gateway.ErrModelUnavailable
		},
	}
	enricher := NewEnricher(gw, 2, nil)

	lead := &Lead{FirstName: "Ada", Email: "ada@analytical.io"}
	enricher.Enrich(context.Background(), lead)

	if lead.Persona != PersonaUnknown {
		t.Errorf("persona = %q, want %q", lead.Persona, PersonaUnknown)
	}
	if lead.Priority != 2 {
		t.Errorf("priority = %d, want configured default 2", lead.Priority)
	}
	// Drafting still ran and used the mock default.
	if lead.EmailSubject == "" || lead.EmailBody == "" {
		t.Errorf("draft missing after profile fallback: subject=%q body=%q", lead.EmailSubject, lead.EmailBody)
	}
}

func TestEnricher_DraftFallback(t *testing.T) {
	gw := &MockModelGateway{
		CompleteEmailFunc: func(ctx context.Context, prompt string, opts gateway.CallOptions) (gateway.EmailDraft, error) {
			return gateway.EmailDraft{}, gateway.ErrModelResponseInvalid
		},
	}
	enricher := NewEnricher(gw, 3, nil)

	lead := &Lead{FirstName: "Grace", Industry: "Defense", Email: "grace@navy.mil"}
	enricher.Enrich(context.Background(), lead)

	if lead.EmailSubject != "Quick note for Grace" {
		t.Errorf("fallback subject = %q", lead.EmailSubject)
	}
	if lead.EmailBody == "" {
		t.Error("fallback body is empty")
	}
}

// A total gateway outage must still leave every lead fully populated,
// and re-running the degraded enrichment must produce identical output.
func TestEnricher_OutageIsIdempotent(t *testing.T) {
	gw := &MockModelGateway{
		CompleteProfileFunc: func(ctx context.Context, prompt string, opts gateway.CallOptions) (gateway.Profile, error) {
			return gateway.Profile{}, gateway.ErrModelUnavailable
		},
		CompleteEmailFunc: func(ctx context.Context, prompt string, opts gateway.CallOptions) (gateway.EmailDraft, error) {
			return gateway.EmailDraft{}, gateway.ErrModelUnavailable
		},
	}
	enricher := NewEnricher(gw, 3, nil)

	first := &Lead{FirstName: "Ada", LastName: "Lovelace", Email: "ada@analytical.io", Industry: "Computing"}
	second := &Lead{FirstName: "Ada", LastName: "Lovelace", Email: "ada@analytical.io", Industry: "Computing"}
	enricher.Enrich(context.Background(), first)
	enricher.Enrich(context.Background(), second)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("degraded enrichment not deterministic (-first +second):\n%s", diff)
	}
	if first.Persona != PersonaUnknown || first.Priority != 3 {
		t.Errorf("outage fallback: persona=%q priority=%d", first.Persona, first.Priority)
	}
	if first.EmailSubject == "" || first.EmailBody == "" {
		t.Error("outage fallback left empty outreach copy")
	}
}

func TestEnricher_EmptyNameFallbackCopy(t *testing.T) {
	gw := &MockModelGateway{
		CompleteEmailFunc: func(ctx context.Context, prompt string, opts gateway.CallOptions) (gateway.EmailDraft, error) {
			return gateway.EmailDraft{}, gateway.ErrModelUnavailable
		},
	}
	enricher := NewEnricher(gw, 3, nil)

	lead := &Lead{Email: "info@somewhere.example"}
	enricher.Enrich(context.Background(), lead)

	if lead.EmailSubject != "Quick note" {
		t.Errorf("subject = %q, want %q", lead.EmailSubject, "Quick note")
	}
	if lead.EmailBody == "" {
		t.Error("body is empty")
	}
}

func TestNewEnricher_DefaultPriorityBounds(t *testing.T) {
	for _, bad := range []int{0, -1, 6, 99} {
		e := NewEnricher(&MockModelGateway{}, bad, nil)
		if e.defaultPriority != 3 {
			t.Errorf("NewEnricher(%d) defaultPriority = %d, want 3", bad, e.defaultPriority)
		}
	}
	e := NewEnricher(&MockModelGateway{}, 5, nil)
	if e.defaultPriority != 5 {
		t.Errorf("NewEnricher(5) defaultPriority = %d, want 5", e.defaultPriority)
	}
}

func TestEnricher_GatewayErrorKindsBothDegrade(t *testing.T) {
	for _, kind := range []error{gateway.ErrModelUnavailable, gateway.ErrModelResponseInvalid} {
		gw := &MockModelGateway{
			CompleteProfileFunc: func(ctx context.Context, prompt string, opts gateway.CallOptions) (gateway.Profile, error) {
				return gateway.Profile{}, errors.New("wrapped: " + kind.Error())
			},
		}
		lead := &Lead{FirstName: "Ada", Email: "ada@analytical.io"}
		NewEnricher(gw, 3, nil).Enrich(context.Background(), lead)

		if lead.Persona != PersonaUnknown || lead.Priority != 3 {
			t.Errorf("error %v: persona=%q priority=%d, want fallback", kind, lead.Persona, lead.Priority)
		}
	}
}
