// Package skeleton models handler templates as trees of fragments and parses
// them from their textual form.
//
// Syntax:
//
//	{%NAME%}              placeholder, resolved to literal source text
//	{%if LABEL%}          start of a conditional region
//	{%else%}              alternative branch of the innermost region
//	{%end%}               end of the innermost region
//	{%include PARTIAL%}   inline another skeleton at parse time
//
// A region or include directive that is alone on its line removes the whole
// line, so templates can be indented like the code they produce.
package skeleton
