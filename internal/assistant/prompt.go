package assistant

import (
	"fmt"
	"strings"

	"flightclaim/backend/internal/models"
)

const basePrompt = `You are the support assistant of a flight compensation service.
You help passengers understand whether a delayed, cancelled or overbooked flight entitles them
to compensation under EU Regulation 261/2004 and how to submit or track a claim.
Answer briefly and in the language of the passenger. If you are unsure, say so and suggest
contacting the support team. Never invent claim statuses or amounts.`

func buildSystemPrompt(matches []models.KnowledgeMatch) string {
	if len(matches) == 0 {
		return basePrompt
	}
	var b strings.Builder
	b.WriteString(basePrompt)
	b.WriteString("\n\nUse the following reference material when it is relevant:\n")
	for i, m := range matches {
		fmt.Fprintf(&b, "\n[%d] %s\n", i+1, strings.TrimSpace(m.Content))
	}
	return b.String()
}
