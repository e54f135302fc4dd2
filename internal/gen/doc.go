// Package gen assembles handler source from a skeleton and a resolved
// configuration.
//
// Assembly is a single depth-first pass over the skeleton:
//   - Text is copied verbatim.
//   - Placeholders are resolved once per run and reused on repeat.
//   - Regions are evaluated once per label and run; only the kept branch is
//     visited, so regions nested in a dropped branch are never evaluated.
//
// Output is a pure function of (skeleton, configuration): equal inputs give
// byte-identical source and manifest.
package gen
