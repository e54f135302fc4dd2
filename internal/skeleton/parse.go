package skeleton

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

const (
	openDelim       = "{%"
	closeDelim      = "%}"
	maxIncludeDepth = 8
)

var nameRe = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// PartialFunc returns the source of a named partial.
type PartialFunc func(name string) (string, error)

// ParseError reports a malformed skeleton.
type ParseError struct {
	Template string
	Line     int
	Msg      string
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("template %s:%d: %s", e.Template, e.Line, e.Msg)
}

// Parse parses a skeleton. partials may be nil when the source has no
// include directives.
func Parse(name, src string, partials PartialFunc) (*Template, error) {
	p := &parser{partials: partials}

	fragments, err := p.parse(name, src)
	if err != nil {
		return nil, err
	}

	return &Template{Name: name, Fragments: fragments}, nil
}

type parser struct {
	partials PartialFunc
	// including is the chain of partials being expanded, for cycle detection.
	including []string
}

type frame struct {
	label  string
	line   int
	body   []Fragment
	els    []Fragment
	inElse bool
}

func (f *frame) add(fr Fragment) {
	dst := &f.body
	if f.inElse {
		dst = &f.els
	}

	if t, ok := fr.(Text); ok {
		if t == "" {
			return
		}

		if n := len(*dst); n > 0 {
			if prev, ok := (*dst)[n-1].(Text); ok {
				(*dst)[n-1] = prev + t
				return
			}
		}
	}

	*dst = append(*dst, fr)
}

func (p *parser) parse(name, src string) ([]Fragment, error) {
	stack := []*frame{{}}
	top := func() *frame { return stack[len(stack)-1] }

	fail := func(offset int, format string, args ...any) error {
		return &ParseError{
			Template: name,
			Line:     strings.Count(src[:offset], "\n") + 1,
			Msg:      fmt.Sprintf(format, args...),
		}
	}

	pos := 0

	for {
		start := strings.Index(src[pos:], openDelim)
		if start < 0 {
			top().add(Text(src[pos:]))
			break
		}

		start += pos

		end := strings.Index(src[start+len(openDelim):], closeDelim)
		if end < 0 {
			return nil, fail(start, "unterminated directive")
		}

		end += start + len(openDelim)
		directive := strings.TrimSpace(src[start+len(openDelim) : end])
		textEnd, next := start, end+len(closeDelim)

		if isControl(directive) {
			textEnd, next = standalone(src, pos, start, next)
		}

		top().add(Text(src[pos:textEnd]))

		keyword, arg, _ := strings.Cut(directive, " ")
		arg = strings.TrimSpace(arg)

		switch keyword {
		case "if":
			if !nameRe.MatchString(arg) {
				return nil, fail(start, "invalid region label %q", arg)
			}

			stack = append(stack, &frame{label: arg, line: strings.Count(src[:start], "\n") + 1})

		case "else":
			if arg != "" {
				return nil, fail(start, "else takes no argument, got %q", arg)
			}

			f := top()
			if f.label == "" {
				return nil, fail(start, "else outside of a region")
			}

			if f.inElse {
				return nil, fail(start, "second else in region %q", f.label)
			}

			f.inElse = true

		case "end":
			if arg != "" {
				return nil, fail(start, "end takes no argument, got %q", arg)
			}

			f := top()
			if f.label == "" {
				return nil, fail(start, "end without matching if")
			}

			stack = stack[:len(stack)-1]
			top().add(Region{Label: f.label, Body: f.body, Else: f.els})

		case "include":
			fragments, err := p.include(arg)
			if err != nil {
				return nil, fail(start, "%v", err)
			}

			for _, fr := range fragments {
				top().add(fr)
			}

		default:
			if !nameRe.MatchString(directive) {
				return nil, fail(start, "invalid directive %q", directive)
			}

			top().add(Placeholder{Name: directive})
		}

		pos = next
	}

	if f := top(); f.label != "" {
		return nil, &ParseError{Template: name, Line: f.line, Msg: fmt.Sprintf("region %q is never closed", f.label)}
	}

	return stack[0].body, nil
}

func (p *parser) include(partial string) ([]Fragment, error) {
	if p.partials == nil {
		return nil, fmt.Errorf("include %q: no partials available", partial)
	}

	if slices.Contains(p.including, partial) {
		return nil, fmt.Errorf("include cycle: %s -> %s", strings.Join(p.including, " -> "), partial)
	}

	if len(p.including) >= maxIncludeDepth {
		return nil, fmt.Errorf("include %q: nested too deeply", partial)
	}

	src, err := p.partials(partial)
	if err != nil {
		return nil, fmt.Errorf("include %q: %w", partial, err)
	}

	p.including = append(p.including, partial)
	defer func() { p.including = p.including[:len(p.including)-1] }()

	return p.parse(partial, src)
}

func isControl(directive string) bool {
	keyword, _, _ := strings.Cut(directive, " ")

	switch keyword {
	case "if", "else", "end", "include":
		return true
	default:
		return false
	}
}

// standalone widens a control directive spanning src[start:next] to its whole
// line when nothing but whitespace shares the line with it. It returns where
// the preceding text ends and where scanning resumes.
func standalone(src string, pos, start, next int) (int, int) {
	lineStart := strings.LastIndexByte(src[:start], '\n') + 1
	if lineStart < pos || strings.TrimSpace(src[lineStart:start]) != "" {
		return start, next
	}

	lineEnd := strings.IndexByte(src[next:], '\n')
	if lineEnd < 0 {
		lineEnd = len(src)
	} else {
		lineEnd += next
	}

	if strings.TrimSpace(src[next:lineEnd]) != "" {
		return start, next
	}

	if lineEnd < len(src) {
		lineEnd++
	}

	return lineStart, lineEnd
}
