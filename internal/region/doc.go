// Package region decides which labeled conditional regions of a skeleton are
// kept for a resolved configuration.
//
// Each label maps to one Predicate built from option presence checks. The
// table itself is owned by the template catalog; this package only evaluates
// it. Nesting is handled by the caller: a region inside a dropped region is
// never asked about.
package region
