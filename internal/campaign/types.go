// Package campaign implements the lead-outreach pipeline: enrichment
// through the model gateway, threshold/budget dispatch over SMTP, reply
// simulation and classification, and aggregation into a campaign report.
//
// A run walks every lead through a small state machine:
//
//	pending -> sent         (selected and delivered)
//	pending -> send_failed  (selected, delivery failed)
//	pending -> skipped      (below threshold or budget exhausted)
//
// Per-lead failures degrade that lead and never abort the run; only
// store and report I/O failures are fatal.
package campaign

import (
	"strings"
	"time"

	"leadpilot/internal/gateway"
)

// Status tracks a lead through dispatch.
type Status string

const (
	StatusPending    Status = "pending"     // Not yet dispatched
	StatusSent       Status = "sent"        // Delivered to the transport
	StatusSendFailed Status = "send_failed" // Delivery attempted once and failed
	StatusSkipped    Status = "skipped"     // Not selected by threshold/budget
)

// RunState is the lifecycle state of a campaign run. Transitions are
// strictly forward.
type RunState string

const (
	RunInitialized RunState = "initialized" // Leads loaded
	RunRunning     RunState = "running"     // Per-lead stages in flight
	RunAggregated  RunState = "aggregated"  // Stats computed
	RunReported    RunState = "reported"    // Report written
)

// Lead is one row of the campaign lead store. Identity and input fields
// are never mutated after ingestion; each derived field is written by
// exactly one pipeline stage.
type Lead struct {
	FirstName string
	LastName  string
	Email     string
	Company   string
	Title     string
	Industry  string
	Location  string

	// Written by the enricher.
	Persona        string
	PersonaDesc    string
	Priority       int
	PriorityReason string
	EmailSubject   string
	EmailBody      string

	// Written by the dispatcher.
	Status Status

	// Written by the reply stage, only when Status == sent.
	ResponseText     string
	ResponseCategory gateway.Category

	// SendError carries the delivery failure reason into the report.
	// Not persisted as a CSV column.
	SendError string
}

// FullName returns the lead's display name.
func (l *Lead) FullName() string {
	name := strings.TrimSpace(l.FirstName + " " + l.LastName)
	if name == "" {
		return l.Email
	}
	return name
}

// Result is the aggregate outcome of one campaign run. Immutable once
// computed.
type Result struct {
	RunID       string
	Total       int
	Sent        int
	SendFailed  int
	Skipped     int
	Replied     int
	AvgPriority float64        // mean over all leads, rounded to 2 decimals
	Personas    map[string]int // histogram by exact persona label
	SendErrors  []string
	Insights    string
	GeneratedAt time.Time
}
