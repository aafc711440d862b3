package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vipresearch/bibchat/core"
	"github.com/vipresearch/bibchat/index"
)

func testCatalog() *index.Catalog {
	return index.NewCatalog([]core.Entry{
		{
			ID:       "ai-tutors",
			Title:    "AI Tutors in Higher Education",
			Snippet:  "Survey of intelligent tutoring systems.",
			URL:      "https://example.edu/catalog#ai-tutors",
			FullText: "ai tutors in higher education survey of intelligent tutoring systems",
		},
		{
			ID:       "grading",
			Title:    "Automated Grading",
			Snippet:  "Essay scoring at scale.",
			URL:      "https://example.edu/catalog#grading",
			FullText: "automated grading essay scoring at scale",
		},
	})
}

func TestAssemble_RanksAndCopies(t *testing.T) {
	assembler, err := NewAssembler()
	require.NoError(t, err)

	team := &core.TeamAggregate{
		TotalMembers:       2,
		TotalContributions: 7,
		PerMember: []core.MemberContribution{
			{Name: "Ada", Contributions: 4},
			{Name: "Grace", Contributions: 3},
		},
	}
	prior := []core.ChatTurn{
		{ID: "t1", Role: core.RoleUser, Content: "earlier question"},
		{ID: "t2", Role: core.RoleAssistant, Content: "", Pending: true},
		{ID: "t3", Role: core.RoleAssistant, Content: "earlier answer"},
	}

	grounding := assembler.Assemble(testCatalog(), "tutors", team, prior)

	require.Len(t, grounding.Entries, 1)
	assert.Equal(t, "ai-tutors", grounding.Entries[0].ID)

	// Pending placeholders never reach the grounding context.
	require.Len(t, grounding.PriorTurns, 2)
	assert.Equal(t, "t1", grounding.PriorTurns[0].ID)
	assert.Equal(t, "t3", grounding.PriorTurns[1].ID)

	// The aggregate is a deep copy, not a shared reference.
	grounding.Team.PerMember[0].Contributions = 99
	assert.Equal(t, 4, team.PerMember[0].Contributions)
}

func TestAssemble_NilTeamAndEmptyQuery(t *testing.T) {
	assembler, err := NewAssembler()
	require.NoError(t, err)

	grounding := assembler.Assemble(testCatalog(), "   ", nil, nil)
	assert.Empty(t, grounding.Entries)
	assert.Nil(t, grounding.Team)
	assert.Empty(t, grounding.PriorTurns)
}

func TestAssemble_TopKOption(t *testing.T) {
	assembler, err := NewAssembler(WithTopK(1))
	require.NoError(t, err)

	grounding := assembler.Assemble(testCatalog(), "education grading scoring", nil, nil)
	assert.Len(t, grounding.Entries, 1)
}

func TestBuildSystemPrompt_EntriesAndTeam(t *testing.T) {
	grounding := core.GroundingContext{
		Entries: []core.ScoredEntry{
			{Entry: core.Entry{Title: "AI Tutors", URL: "https://example.edu#a", Snippet: "Survey."}, Score: 115},
			{Entry: core.Entry{Title: "Grading", URL: "https://example.edu#b"}, Score: 20},
		},
		Team: &core.TeamAggregate{
			TotalMembers:       2,
			TotalContributions: 7,
			PerMember:          []core.MemberContribution{{Name: "Ada", Contributions: 4}},
		},
	}

	prompt := BuildSystemPrompt(grounding)

	assert.Contains(t, prompt, `"Relevant entries on this site:"`)
	assert.Contains(t, prompt, "1. Title: AI Tutors\n   URL: https://example.edu#a\n   Summary: Survey.\n")
	assert.Contains(t, prompt, "2. Title: Grading\n   URL: https://example.edu#b\n")
	// No Summary line for the snippetless entry.
	assert.NotContains(t, prompt, "URL: https://example.edu#b\n   Summary:")
	assert.Contains(t, prompt, "- Total members: 2")
	assert.Contains(t, prompt, "- Ada: 4 contributions")
}

func TestBuildSystemPrompt_Bare(t *testing.T) {
	prompt := BuildSystemPrompt(core.GroundingContext{})

	assert.True(t, strings.HasPrefix(prompt, "You are a helpful AI assistant"))
	assert.NotContains(t, prompt, "potentially relevant entries")
	assert.NotContains(t, prompt, "Team contribution statistics")
}
