// Package settings reads settings documents into the flat option map the
// resolver consumes.
//
// YAML, JSON and HCL documents are accepted. Nesting is flattened into
// dotted names, so
//
//	input:
//	  base64: true
//
// and
//
//	input.base64: true
//
// are the same setting. Documents written in the older torchlambda layout
// (input.type plus a return section) are translated to current names.
package settings
