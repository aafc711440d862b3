package chat

import (
	"fmt"
	"strings"

	"github.com/vipresearch/bibchat/core"
)

const systemPreamble = `You are a helpful AI assistant for the AI in Education VIP Research Exchange website. Your role is to answer questions about AI in education research and help users find relevant resources.

When answering questions:
1. Provide clear, concise, and accurate information
2. Always include a "Relevant entries on this site:" section at the end with links to specific entries
3. Format links as: ` + "•" + ` [Entry Title](ENTRY_URL)
4. Only reference entries that are actually relevant to the user's question
5. If no entries are relevant, say so clearly

`

// BuildSystemPrompt renders the grounding context as the provider's system
// prompt: the assistant role and answer rules, a numbered shortlist of
// candidate entries, and team contribution statistics when supplied.
func BuildSystemPrompt(grounding core.GroundingContext) string {
	var b strings.Builder
	b.WriteString(systemPreamble)

	if len(grounding.Entries) > 0 {
		b.WriteString("\nHere are potentially relevant entries from the site:\n\n")
		for i, entry := range grounding.Entries {
			fmt.Fprintf(&b, "%d. Title: %s\n", i+1, entry.Title)
			fmt.Fprintf(&b, "   URL: %s\n", entry.URL)
			if entry.Snippet != "" {
				fmt.Fprintf(&b, "   Summary: %s\n", entry.Snippet)
			}
			b.WriteString("\n")
		}
	}

	if team := grounding.Team; team != nil {
		b.WriteString("\nTeam contribution statistics for this site:\n")
		fmt.Fprintf(&b, "- Total members: %d\n", team.TotalMembers)
		fmt.Fprintf(&b, "- Total contributions: %d\n", team.TotalContributions)
		for _, member := range team.PerMember {
			fmt.Fprintf(&b, "- %s: %d contributions\n", member.Name, member.Contributions)
		}
	}

	return b.String()
}
