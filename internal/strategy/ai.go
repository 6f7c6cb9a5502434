package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cratewise/cratewise/internal/ai"
	"github.com/cratewise/cratewise/pkg/models"
)

const (
	// aiMaxCandidates bounds the prompt: the top of the community-rating
	// ordering is plenty for a model to choose from.
	aiMaxCandidates = 200

	// aiMaxResults caps what we ask for; this is the most expensive and
	// least deterministic source.
	aiMaxResults = 20
)

// AIStrategy delegates candidate selection to a language model and parses
// the ranked subset back. Missing credentials or an unparseable response
// yield an empty list, never an error: the pipeline degrades without it.
type AIStrategy struct {
	provider   ai.Provider // nil when no credentials are configured
	candidates CandidateSource
	owned      OwnedSetReader
}

// NewAIStrategy creates the AI judgment strategy. provider may be nil.
func NewAIStrategy(provider ai.Provider, candidates CandidateSource, owned OwnedSetReader) *AIStrategy {
	return &AIStrategy{provider: provider, candidates: candidates, owned: owned}
}

// Name implements Strategy.
func (s *AIStrategy) Name() models.StrategyName { return models.StrategyAI }

// Score implements Strategy.
func (s *AIStrategy) Score(ctx context.Context, userID uuid.UUID, profile *models.TasteProfile, limit int) ([]models.StrategyScore, error) {
	if s.provider == nil {
		log.Debug().Msg("ai strategy skipped: no provider configured")
		return nil, nil
	}
	if profile == nil || profile.IsEmpty() {
		return nil, nil
	}
	if limit <= 0 || limit > aiMaxResults {
		limit = aiMaxResults
	}

	ownedSet, err := s.owned.OwnedAlbumIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load owned set: %w", err)
	}

	pool, err := s.candidates.TopByCommunityRating(ctx, aiMaxCandidates)
	if err != nil {
		return nil, fmt.Errorf("load candidate pool: %w", err)
	}

	candidates := make([]models.CandidateAlbum, 0, len(pool))
	for _, cand := range pool {
		if _, known := ownedSet[cand.ID]; known {
			continue
		}
		candidates = append(candidates, cand)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	response, err := s.provider.Complete(ctx, buildPrompt(profile, candidates, limit))
	if err != nil {
		log.Warn().Err(err).Str("provider", s.provider.Name()).Msg("ai completion failed")
		return nil, nil
	}

	picks := ParseAIPicks(response, len(candidates))
	scores := make([]models.StrategyScore, 0, len(picks))
	for _, pick := range picks {
		scores = append(scores, models.StrategyScore{
			AlbumID:     candidates[pick.Index].ID,
			Score:       pick.Score / 10.0, // 1-10 rescaled into [0,1]
			Explanation: pick.Reason,
			Strategy:    models.StrategyAI,
		})
	}
	return sortAndTruncate(scores, limit), nil
}

// buildPrompt renders the taste summary and a numbered candidate list.
func buildPrompt(profile *models.TasteProfile, candidates []models.CandidateAlbum, limit int) string {
	var b strings.Builder

	b.WriteString("You are a record-store clerk who knows this collector's taste.\n\n")
	b.WriteString("Their taste profile:\n")
	writeWeightLine(&b, "Genres", profile.Genres)
	writeWeightLine(&b, "Styles", profile.Styles)
	writeWeightLine(&b, "Favorite artists", profile.Artists)
	writeWeightLine(&b, "Eras", profile.Eras)

	b.WriteString("\nCandidate albums:\n")
	for i, cand := range candidates {
		fmt.Fprintf(&b, "%d. %s - %s (%d) [%s]\n",
			i, cand.Artist, cand.Title, cand.Year, strings.Join(cand.Genres, ", "))
	}

	fmt.Fprintf(&b, "\nPick the %d albums this collector would most enjoy. ", limit)
	b.WriteString("Respond with ONLY a JSON array of objects: ")
	b.WriteString(`[{"index": <candidate number>, "score": <1-10>, "reason": "<one sentence why>"}]`)
	return b.String()
}

func writeWeightLine(b *strings.Builder, label string, weights map[string]float64) {
	top := models.TopWeights(weights, 5)
	if len(top) == 0 {
		return
	}
	names := make([]string, len(top))
	for i, entry := range top {
		names[i] = entry.Name
	}
	fmt.Fprintf(b, "- %s: %s\n", label, strings.Join(names, ", "))
}

// AIPick is one validated entry parsed from the model response.
type AIPick struct {
	Index  int
	Score  float64 // clamped into [1,10]
	Reason string
}

// aiPickWire decodes one raw entry. Pointer fields distinguish absent from
// zero so type mismatches and missing fields reject the entry outright
// instead of coercing garbage into a score.
type aiPickWire struct {
	Index  *int     `json:"index"`
	Score  *float64 `json:"score"`
	Reason string   `json:"reason"`
}

// ParseAIPicks extracts the first JSON array from free text and returns the
// entries that survive strict validation. candidateCount bounds the index
// range. Anything malformed is discarded item-wise; a response with no
// usable array yields nil.
func ParseAIPicks(text string, candidateCount int) []AIPick {
	raw := extractJSONArray(text)
	if raw == "" {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}

	picks := make([]AIPick, 0, len(items))
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		var wire aiPickWire
		if err := json.Unmarshal(item, &wire); err != nil {
			continue
		}
		if wire.Index == nil || wire.Score == nil {
			continue
		}
		idx := *wire.Index
		if idx < 0 || idx >= candidateCount {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}

		score := *wire.Score
		if score < 1 {
			score = 1
		}
		if score > 10 {
			score = 10
		}

		picks = append(picks, AIPick{Index: idx, Score: score, Reason: wire.Reason})
	}
	return picks
}

// extractJSONArray returns the first balanced top-level JSON array in text,
// tracking string literals so brackets inside reasons don't truncate it.
func extractJSONArray(text string) string {
	start := strings.IndexByte(text, '[')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
