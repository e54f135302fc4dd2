// Package diagnostic provides structured errors and warnings collected while
// resolving handler settings.
//
// Key capabilities:
//   - Unknown option reports with "did you mean" suggestions
//   - Type and value errors attached to the offending option
//   - Constraint violations naming both options involved
//   - Collect-everything reporting: callers see every problem at once
package diagnostic
