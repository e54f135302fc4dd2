package match

import "sort"

// Default thresholds for Suggest.
const (
	DefaultMinScore       = 0.6
	DefaultMaxSuggestions = 3
	leafScoreWeight       = 0.9
)

// Candidate is a known name scored against an unknown one.
type Candidate struct {
	Name string
	// Score is the similarity between the two names (0-1, higher is better).
	Score float64
	// Normalized is the normalized form of Name used for scoring.
	Normalized string
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankCandidates scores every known name against the unknown one.
// Returns candidates sorted by score (descending), then by name.
func RankCandidates(unknown string, known []string) CandidateList {
	candidates := make(CandidateList, 0, len(known))

	for _, name := range known {
		score := NormalizedLevenshteinScore(unknown, name)

		leaf := LeafLevenshteinScore(unknown, name) * leafScoreWeight
		if leaf > score {
			score = leaf
		}

		candidates = append(candidates, Candidate{
			Name:       name,
			Score:      score,
			Normalized: NormalizeIdent(name),
		})
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns up to limit known names whose score is at least minScore.
func Suggest(unknown string, known []string, minScore float64, limit int) []string {
	var out []string

	for _, c := range RankCandidates(unknown, known).Top(limit) {
		if c.Score < minScore {
			break
		}

		out = append(out, c.Name)
	}

	return out
}

// Top returns the top N candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n < 0 {
		return nil
	}

	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Best returns the highest-scoring candidate, or nil if empty.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// sort.Interface implementation.
func (c CandidateList) Len() int      { return len(c) }
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}
