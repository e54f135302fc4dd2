// Package catalog holds the embedded handler skeletons and the region table
// that gates their conditional parts.
//
// Three skeletons are shipped:
//
//   - lambda-base64: AWS Lambda handler reading a base64 string of raw bytes.
//   - lambda-array: AWS Lambda handler reading a flat JSON array.
//   - module: header-only inference routine for embedding in another
//     program, covering both encodings through regions.
//
// Loading cross-checks every skeleton against the placeholder rules and the
// region table, so a loaded catalog can never ask for something undeclared.
package catalog
