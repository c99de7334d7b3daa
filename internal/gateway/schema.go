package gateway

import (
	"fmt"
	"strconv"
	"strings"
)

// Profile is the validated result of a lead-profile completion.
type Profile struct {
	Persona        string
	PersonaDesc    string
	Priority       int
	PriorityReason string
}

// EmailDraft is the validated result of an outreach-draft completion.
type EmailDraft struct {
	Subject string
	Body    string
}

// Category is a canonical reply classification.
type Category string

// Canonical reply categories. NoResponse doubles as the degraded state
// for sent leads whose reply simulation failed.
const (
	CategoryInterested    Category = "interested"
	CategoryNotInterested Category = "not_interested"
	CategoryNeutral       Category = "neutral"
	CategoryNoResponse    Category = "no_response"
)

// ValidCategory reports whether c is one of the canonical categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryInterested, CategoryNotInterested, CategoryNeutral, CategoryNoResponse:
		return true
	}
	return false
}

// ParseProfile parses "key: value" lines into a lead profile. Persona and
// priority are required; a priority outside 1-5 is rejected, not clamped.
func ParseProfile(raw string) (Profile, error) {
	p := Profile{}
	havePriority := false

	for _, line := range strings.Split(raw, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "persona":
			p.Persona = value
		case "persona_desc":
			p.PersonaDesc = value
		case "priority":
			n, err := strconv.Atoi(value)
			if err != nil {
				return Profile{}, fmt.Errorf("%w: priority %q is not an integer", ErrModelResponseInvalid, value)
			}
			p.Priority = n
			havePriority = true
		case "priority_reason":
			p.PriorityReason = value
		}
	}

	if p.Persona == "" {
		return Profile{}, fmt.Errorf("%w: missing persona", ErrModelResponseInvalid)
	}
	if !havePriority {
		return Profile{}, fmt.Errorf("%w: missing priority", ErrModelResponseInvalid)
	}
	if p.Priority < 1 || p.Priority > 5 {
		return Profile{}, fmt.Errorf("%w: priority %d out of range 1-5", ErrModelResponseInvalid, p.Priority)
	}

	return p, nil
}

// ParseEmail extracts the subject line and body from a drafted email.
// Expected format: a "Subject:" line followed by a "Body:" section.
func ParseEmail(raw string) (EmailDraft, error) {
	draft := EmailDraft{}
	lines := strings.Split(raw, "\n")

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		switch {
		case draft.Subject == "" && strings.HasPrefix(lower, "subject:"):
			draft.Subject = strings.TrimSpace(trimmed[len("subject:"):])
		case strings.HasPrefix(lower, "body:"):
			parts := []string{strings.TrimSpace(trimmed[len("body:"):])}
			parts = append(parts, lines[i+1:]...)
			draft.Body = strings.TrimSpace(strings.Join(parts, "\n"))
		}

		if draft.Body != "" {
			break
		}
	}

	if draft.Subject == "" {
		return EmailDraft{}, fmt.Errorf("%w: missing subject line", ErrModelResponseInvalid)
	}
	if draft.Body == "" {
		return EmailDraft{}, fmt.Errorf("%w: missing email body", ErrModelResponseInvalid)
	}

	return draft, nil
}

// ParseCategory normalizes a classification completion into one of the
// canonical reply categories. Unknown labels are invalid, not coerced.
func ParseCategory(raw string) (Category, error) {
	label := raw
	if idx := strings.IndexByte(label, '\n'); idx >= 0 {
		label = label[:idx]
	}
	label = strings.ToLower(strings.TrimSpace(label))
	label = strings.Trim(label, "\"'.` ")
	label = strings.ReplaceAll(label, " ", "_")
	label = strings.ReplaceAll(label, "-", "_")

	c := Category(label)
	if !ValidCategory(c) {
		return "", fmt.Errorf("%w: unknown reply category %q", ErrModelResponseInvalid, raw)
	}
	return c, nil
}
