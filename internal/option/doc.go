// Package option defines the closed catalog of settings a handler can be
// generated from.
//
// Each Option is a named, typed axis with an optional default and
// requires/excludes relations to other options. A Registry is built once,
// validated at construction and never mutated afterwards; Default returns the
// built-in registry shared by the whole process.
package option
