package campaign

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"leadpilot/internal/gateway"
)

// ModelGateway is the slice of the model gateway the pipeline consumes.
// *gateway.Gateway satisfies it; tests substitute scripted fakes.
type ModelGateway interface {
	Complete(ctx context.Context, prompt string, opts gateway.CallOptions) (string, error)
	CompleteProfile(ctx context.Context, prompt string, opts gateway.CallOptions) (gateway.Profile, error)
	CompleteEmail(ctx context.Context, prompt string, opts gateway.CallOptions) (gateway.EmailDraft, error)
	CompleteCategory(ctx context.Context, prompt string, opts gateway.CallOptions) (gateway.Category, error)
}

// PersonaUnknown is the fallback persona label used when profiling fails.
const PersonaUnknown = "Unknown"

// Enricher derives persona, priority, and outreach copy for leads.
type Enricher struct {
	gateway         ModelGateway
	defaultPriority int
	logger          *zap.Logger
}

// NewEnricher creates an enricher. defaultPriority is the score assigned
// when profiling fails; values outside 1-5 fall back to 3.
func NewEnricher(gw ModelGateway, defaultPriority int, logger *zap.Logger) *Enricher {
	if defaultPriority < 1 || defaultPriority > 5 {
		defaultPriority = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{gateway: gw, defaultPriority: defaultPriority, logger: logger}
}

// Enrich populates persona, priority, and outreach copy on the lead.
// Model failures degrade to documented fallbacks; the lead always leaves
// with a persona, a 1-5 priority, and a non-empty subject and body.
func (e *Enricher) Enrich(ctx context.Context, lead *Lead) {
	profile, err := e.gateway.CompleteProfile(ctx, ProfilePrompt(lead), gateway.DefaultCallOptions())
	if err != nil {
		e.logger.Warn("Profile enrichment degraded",
			zap.String("lead", lead.Email),
			zap.Error(err))
		lead.Persona = PersonaUnknown
		lead.PersonaDesc = ""
		lead.Priority = e.defaultPriority
		lead.PriorityReason = ""
	} else {
		lead.Persona = profile.Persona
		lead.PersonaDesc = profile.PersonaDesc
		lead.Priority = profile.Priority
		lead.PriorityReason = profile.PriorityReason
	}

	// Drafting sees the final persona, including the fallback label.
	draft, err := e.gateway.CompleteEmail(ctx, EmailPrompt(lead), gateway.DefaultCallOptions())
	if err != nil {
		e.logger.Warn("Email draft degraded",
			zap.String("lead", lead.Email),
			zap.Error(err))
		lead.EmailSubject, lead.EmailBody = genericDraft(lead)
	} else {
		lead.EmailSubject = draft.Subject
		lead.EmailBody = draft.Body
	}
}

// genericDraft returns the fixed outreach copy used when drafting fails.
// It is deterministic for a given lead so rerunning a degraded enrichment
// produces identical output.
func genericDraft(lead *Lead) (subject, body string) {
	name := strings.TrimSpace(lead.FirstName)
	if name == "" {
		subject = "Quick note"
	} else {
		subject = fmt.Sprintf("Quick note for %s", name)
	}

	greeting := name
	if greeting == "" {
		greeting = "there"
	}
	industry := strings.TrimSpace(lead.Industry)
	if industry == "" {
		industry = "your industry"
	}
	body = fmt.Sprintf(`Hi %s,

I wanted to reach out and introduce what we are building. Teams in %s use it to take repetitive work off their plate, and I think it could be a fit for you as well.

Would you be open to a quick chat this week?

Best regards`, greeting, industry)
	return subject, body
}
