package campaign

import (
	"fmt"
	"math"
	"time"

	"leadpilot/internal/gateway"
)

// Aggregate computes campaign statistics over processed leads. A lead
// counts as replied only when it was sent and classified something other
// than no_response. Average priority spans all leads, sent or not, and
// is rounded to two decimals.
func Aggregate(leads []*Lead) Result {
	r := Result{
		Total:       len(leads),
		Personas:    make(map[string]int),
		GeneratedAt: time.Now().UTC(),
	}

	sum := 0
	for _, lead := range leads {
		switch lead.Status {
		case StatusSent:
			r.Sent++
		case StatusSendFailed:
			r.SendFailed++
			if lead.SendError != "" {
				r.SendErrors = append(r.SendErrors, fmt.Sprintf("%s: %s", lead.Email, lead.SendError))
			}
		case StatusSkipped:
			r.Skipped++
		}

		if lead.Status == StatusSent &&
			lead.ResponseCategory != "" &&
			lead.ResponseCategory != gateway.CategoryNoResponse {
			r.Replied++
		}

		sum += lead.Priority
		persona := lead.Persona
		if persona == "" {
			persona = PersonaUnknown
		}
		r.Personas[persona]++
	}

	if r.Total > 0 {
		r.AvgPriority = math.Round(float64(sum)/float64(r.Total)*100) / 100
	}
	return r
}
