// Package resolve turns raw settings into a validated Config.
//
// Resolution checks every raw entry against the option registry, coerces it
// to the declared kind, applies defaults, and finally evaluates every
// requires, excludes, group and value check over the defaulted set. All
// problems are reported together as a *ValidationError; a Config only ever
// exists in its valid form.
package resolve
