package generation

import (
	"fmt"
	"strings"
	"time"
)

// defaultTopic stands in when the operator submits an empty topic so
// the model never receives a blank prompt.
const defaultTopic = "the most important legal-tech and data-privacy developments this week"

const systemPrompt = "You are a legal technology expert. Always respond with valid JSON only, no markdown code blocks."

func buildPrompt(topic string, docs []SearchDocument, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a legal technology expert creating a weekly intelligence briefing. Today's date is %s.\n\n", now.UTC().Format("2006-01-02"))
	fmt.Fprintf(&b, "Generate a comprehensive legal-tech intelligence brief on %s, covering the latest developments in:\n", topic)
	b.WriteString(`- Data privacy laws (GDPR, DPDPA, CCPA updates)
- AI regulations (EU AI Act, global AI governance)
- Cybersecurity compliance
- Corporate legal technology trends
`)

	if len(docs) > 0 {
		b.WriteString("\nGround the brief in these recent articles:\n")
		for _, doc := range docs {
			fmt.Fprintf(&b, "- %s: %s\n", doc.Title, doc.Excerpt)
		}
	}

	b.WriteString(`
Respond with a JSON object (no markdown code blocks, just valid JSON) with this exact structure:
{
  "title": "A compelling headline about the most important development this week (max 80 chars)",
  "deep_dive": "A detailed 500-word analysis in markdown format with **bold headers**, bullet points, and clear sections covering: 1) Key Development, 2) Global Impact, 3) What It Means For Businesses, 4) Action Items",
  "category": "One of: Privacy, AI Regulation, Cybersecurity, Legal Tech",
  "fun_fact": "One surprising, verifiable fact related to the topic (max 200 chars)",
  "radar_points": ["Up to 4 one-line regulatory developments to watch"],
  "jargon_term": "One legal or technical term readers should know",
  "jargon_def": "A plain-language definition of that term (max 200 chars)",
  "social_caption": "A LinkedIn-ready caption promoting this brief (max 280 chars)",
  "cover_image": "A short descriptive phrase for a cover illustration"
}`)

	return b.String()
}

// stripFences removes markdown code fences the model sometimes wraps
// around its JSON despite instructions.
func stripFences(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}
