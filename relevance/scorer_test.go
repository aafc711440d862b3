package relevance

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vipresearch/bibchat/core"
	"github.com/vipresearch/bibchat/index"
)

func newTestScorer(t *testing.T, opts ...Option) *Scorer {
	t.Helper()
	s, err := NewScorer(opts...)
	require.NoError(t, err)
	return s
}

func entry(id, title, snippet, context string, tags ...string) core.Entry {
	return core.Entry{
		ID:      id,
		Title:   title,
		Snippet: snippet,
		Context: context,
		Tags:    tags,
		FullText: strings.ToLower(strings.Join([]string{
			title, snippet, strings.Join(tags, ","), context,
		}, " ")),
	}
}

func TestScore_EmptyQuery(t *testing.T) {
	s := newTestScorer(t)
	catalog := index.NewCatalog([]core.Entry{entry("a", "AI Ethics", "", "")})

	assert.Empty(t, s.Score(catalog, "", 5))
	assert.Empty(t, s.Score(catalog, "   \t\n", 5))
}

func TestScore_TitlePhraseFloor(t *testing.T) {
	s := newTestScorer(t)
	catalog := index.NewCatalog([]core.Entry{
		entry("a", "Student Attitudes Toward AI", "", ""),
	})

	results := s.Score(catalog, "ATTITUDES TOWARD ai", 5)
	require.Len(t, results, 1)
	assert.GreaterOrEqual(t, results[0].Score, 100)
}

func TestScore_ZeroScoresExcluded(t *testing.T) {
	s := newTestScorer(t)
	catalog := index.NewCatalog([]core.Entry{
		entry("hit", "Generative models in classrooms", "", ""),
		entry("miss", "Unrelated gardening guide", "", ""),
	})

	results := s.Score(catalog, "classrooms", 5)
	require.Len(t, results, 1)
	assert.Equal(t, "hit", results[0].ID)
}

func TestScore_ShortTokensDiscarded(t *testing.T) {
	s := newTestScorer(t)
	catalog := index.NewCatalog([]core.Entry{
		entry("a", "An item of note to read", "", ""),
	})

	// Every token has length <= 2, and the full phrase matches nothing.
	results := s.Score(catalog, "an of to", 5)
	assert.Empty(t, results)
}

func TestScore_MetacharactersAreLiteral(t *testing.T) {
	s := newTestScorer(t)
	catalog := index.NewCatalog([]core.Entry{
		entry("dotted", "Rise of a.i. tutors", "", ""),
		// "aXiY" would match the pattern /a.i./ but not the literal "a.i."
		entry("decoy", "Basic axis analysis", "", ""),
	})

	var results []core.ScoredEntry
	assert.NotPanics(t, func() {
		results = s.Score(catalog, "a.i.", 5)
	})
	require.Len(t, results, 1)
	assert.Equal(t, "dotted", results[0].ID)

	assert.NotPanics(t, func() {
		_ = s.Score(catalog, "c++ (advanced) [beta]", 5)
	})
}

func TestScore_TagSignalOncePerToken(t *testing.T) {
	weights := Weights{TagToken: 30}
	s := newTestScorer(t, WithWeights(weights))
	catalog := index.NewCatalog([]core.Entry{
		{ID: "a", Title: "x", Tags: []string{"ethics", "ethics-policy", "meta-ethics"}},
	})

	results := s.Score(catalog, "ethics", 5)
	require.Len(t, results, 1)
	assert.Equal(t, 30, results[0].Score)
}

func TestScore_ContextSignal(t *testing.T) {
	weights := Weights{ContextToken: 5}
	s := newTestScorer(t, WithWeights(weights))
	catalog := index.NewCatalog([]core.Entry{
		{ID: "a", Title: "x", Context: "Assessment Tools"},
	})

	results := s.Score(catalog, "assessment", 5)
	require.Len(t, results, 1)
	assert.Equal(t, 5, results[0].Score)
}

func TestScore_TokenOccurrencesCounted(t *testing.T) {
	weights := Weights{TitleToken: 15}
	s := newTestScorer(t, WithWeights(weights))
	catalog := index.NewCatalog([]core.Entry{
		{ID: "a", Title: "ethics and ethics and ethics"},
	})

	results := s.Score(catalog, "ethics", 5)
	require.Len(t, results, 1)
	assert.Equal(t, 45, results[0].Score)
}

func TestScore_RankingAndLimit(t *testing.T) {
	s := newTestScorer(t)
	entries := make([]core.Entry, 0, 8)
	entries = append(entries, entry("title-hit", "chatbot design", "", ""))
	for i := 0; i < 7; i++ {
		entries = append(entries, entry("full-"+itoa(i), "other work", "mentions chatbot once", ""))
	}
	catalog := index.NewCatalog(entries)

	results := s.Score(catalog, "chatbot", 0)
	require.Len(t, results, DefaultLimit)
	assert.Equal(t, "title-hit", results[0].ID)

	// Equal-scoring entries keep catalog order.
	for i := 1; i < len(results); i++ {
		assert.Equal(t, "full-"+itoa(i-1), results[i].ID)
	}
}

func TestScore_PermutationInvariance(t *testing.T) {
	s := newTestScorer(t)
	entries := []core.Entry{
		entry("a", "AI ethics in schools", "snippet about ethics", "Ethics", "ethics"),
		entry("b", "Machine learning basics", "covers AI ethics briefly", ""),
		entry("c", "Ethics of assessment", "", "Assessment"),
		entry("d", "Gardening for beginners", "", ""),
		entry("e", "AI ethics frameworks", "framework survey", "", "frameworks"),
	}

	baseline := map[string]int{}
	for _, r := range s.Score(index.NewCatalog(entries), "ai ethics", 10) {
		baseline[r.ID] = r.Score
	}
	require.NotEmpty(t, baseline)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]core.Entry, len(entries))
		copy(shuffled, entries)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		permuted := map[string]int{}
		for _, r := range s.Score(index.NewCatalog(shuffled), "ai ethics", 10) {
			permuted[r.ID] = r.Score
		}
		assert.Equal(t, baseline, permuted)
	}
}

func TestScore_DoesNotMutateCatalog(t *testing.T) {
	s := newTestScorer(t)
	entries := []core.Entry{entry("a", "AI ethics", "", "")}
	catalog := index.NewCatalog(entries)

	before := catalog.Entries()
	_ = s.Score(catalog, "ethics", 5)
	assert.Equal(t, before, catalog.Entries())
}

type recordingMonitor struct {
	query   string
	tokens  []string
	scored  int
	results []core.ScoredEntry
}

func (m *recordingMonitor) Start(q string)                { m.query = q }
func (m *recordingMonitor) AfterTokenize(tokens []string) { m.tokens = tokens }
func (m *recordingMonitor) EntryScored(string, int)       { m.scored++ }
func (m *recordingMonitor) Finish(rs []core.ScoredEntry)  { m.results = rs }

func TestScoreWithMonitor(t *testing.T) {
	s := newTestScorer(t)
	catalog := index.NewCatalog([]core.Entry{
		entry("a", "AI ethics", "", ""),
		entry("b", "Unrelated", "", ""),
	})

	monitor := &recordingMonitor{}
	results := s.ScoreWithMonitor(catalog, "ethics overview", 5, monitor)

	assert.Equal(t, "ethics overview", monitor.query)
	assert.Equal(t, []string{"ethics", "overview"}, monitor.tokens)
	assert.Equal(t, 2, monitor.scored)
	assert.Equal(t, results, monitor.results)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var digits []byte
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}
