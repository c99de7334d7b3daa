package campaign

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// InsightsUnavailableNotice replaces the AI narrative when the model
// cannot produce one. The statistics above it are always present.
const InsightsUnavailableNotice = "_AI insights are unavailable for this run. The statistics above were produced without model assistance._"

// SummaryBlock renders the plain-text statistics block. The same text is
// embedded in the report and fed to the insights prompt.
func SummaryBlock(r Result) string {
	var b strings.Builder
	b.WriteString("Campaign summary:\n\n")
	fmt.Fprintf(&b, "Total leads: %d\n", r.Total)
	fmt.Fprintf(&b, "Sent: %d\n", r.Sent)
	fmt.Fprintf(&b, "Send failed: %d\n", r.SendFailed)
	fmt.Fprintf(&b, "Skipped: %d\n", r.Skipped)
	fmt.Fprintf(&b, "Replied: %d\n", r.Replied)
	fmt.Fprintf(&b, "Average priority: %.2f\n", r.AvgPriority)
	b.WriteString("\nPersona breakdown:\n")
	for _, persona := range sortedPersonas(r.Personas) {
		fmt.Fprintf(&b, "- %s: %d\n", persona, r.Personas[persona])
	}
	return b.String()
}

// RenderReport renders the final markdown report for a completed run.
func RenderReport(r Result) string {
	var b strings.Builder
	b.WriteString("# Campaign Summary\n\n")
	if r.RunID != "" {
		fmt.Fprintf(&b, "Run ID: %s\n", r.RunID)
	}
	if !r.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format(time.RFC3339))
	}
	b.WriteString("\n")
	b.WriteString(SummaryBlock(r))

	if len(r.SendErrors) > 0 {
		b.WriteString("\nDelivery failures:\n")
		for _, failure := range r.SendErrors {
			fmt.Fprintf(&b, "- %s\n", failure)
		}
	}

	b.WriteString("\n## AI Insights\n\n")
	if strings.TrimSpace(r.Insights) == "" {
		b.WriteString(InsightsUnavailableNotice)
	} else {
		b.WriteString(strings.TrimSpace(r.Insights))
	}
	b.WriteString("\n")
	return b.String()
}

// sortedPersonas orders persona labels by count descending, then label
// ascending, so report output is deterministic.
func sortedPersonas(histogram map[string]int) []string {
	labels := make([]string, 0, len(histogram))
	for label := range histogram {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if histogram[labels[i]] != histogram[labels[j]] {
			return histogram[labels[i]] > histogram[labels[j]]
		}
		return labels[i] < labels[j]
	})
	return labels
}
