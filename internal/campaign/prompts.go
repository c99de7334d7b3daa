package campaign

import (
	"fmt"
	"strings"
)

// Prompt builders for the model calls a campaign run makes. The output
// format contracts stated here must stay in sync with the gateway parsers.

// ProfilePrompt asks for a buyer persona and a 1-5 priority score in one call.
func ProfilePrompt(lead *Lead) string {
	return fmt.Sprintf(`You are an expert sales analyst enriching a sales lead.

Lead: first_name=%s, last_name=%s, company=%s, title=%s, industry=%s, location=%s

Suggest a concise buyer persona label (one or two words), a 1-2 sentence
persona description, a numeric priority from 1 to 5 (5 = highest), and a
one-sentence reason for the score.

Return output as lines in the format:
persona: <label>
persona_desc: <description>
priority: <1-5>
priority_reason: <reason>`,
		lead.FirstName, lead.LastName, lead.Company, lead.Title, lead.Industry, lead.Location)
}

// EmailPrompt asks for a short personalized outreach email.
func EmailPrompt(lead *Lead) string {
	return fmt.Sprintf(`Write a short, personalized outreach email for the lead below.
Friendly professional tone, body under 100 words, one clear call-to-action sentence.

Lead: name=%s, title=%s, company=%s, persona=%s

Return exactly as:
Subject: <subject line>

Body: <email body>`,
		lead.FullName(), lead.Title, lead.Company, lead.Persona)
}

// ReplyPrompt asks the model to answer as the prospect who received the email.
func ReplyPrompt(lead *Lead) string {
	return fmt.Sprintf(`You are the prospect described below, replying to a cold outreach email.
Write a short reply (1-3 sentences) with a realistic reaction: clearly
interested, neutral, or not interested.

Persona: %s
Email subject: %s
Email body:
%s`,
		lead.Persona, lead.EmailSubject, lead.EmailBody)
}

// ClassifyPrompt asks for a canonical label for a prospect reply.
func ClassifyPrompt(replyText string) string {
	return fmt.Sprintf(`Classify the reply below into one of: interested, not_interested, neutral.
Return only the label.

Reply:
%s`, strings.TrimSpace(replyText))
}

// InsightsPrompt asks for the narrative section of the campaign report.
func InsightsPrompt(summary string) string {
	return fmt.Sprintf(`You are a smart sales analyst. Given the campaign summary below, write a
short markdown report (3-6 paragraphs) with insights, suggestions to improve
outreach, and 3 quick action items.

%s`, summary)
}
