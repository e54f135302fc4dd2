// Package match provides name normalization, Levenshtein distance calculation
// and candidate ranking used to suggest option names for misspelled settings.
//
// Key functions:
//   - NormalizeIdent: normalizes option names for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - RankCandidates: ranks known names against an unknown one
//   - Suggest: returns the best few names worth showing to the user
package match
