package placeholder

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Quote renders s as a C++ narrow string literal.
func Quote(s string) string {
	var b strings.Builder

	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				// Octal escapes stop after three digits, unlike \x.
				fmt.Fprintf(&b, `\%03o`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}

	b.WriteByte('"')

	return b.String()
}

// Double renders f as a C++ double literal; integral values keep a ".0" so
// arithmetic on integer tensors is promoted.
func Double(f float64) string {
	switch {
	case math.IsNaN(f):
		return "std::numeric_limits<double>::quiet_NaN()"
	case math.IsInf(f, 1):
		return "std::numeric_limits<double>::infinity()"
	case math.IsInf(f, -1):
		return "-std::numeric_limits<double>::infinity()"
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}

// argument renders one operation argument. ok is false for a skipped (null)
// argument.
func argument(v any) (string, bool) {
	switch a := v.(type) {
	case nil:
		return "", false
	case bool:
		return strconv.FormatBool(a), true
	case int64:
		return strconv.FormatInt(a, 10), true
	case float64:
		return Double(a), true
	case string:
		return a, true
	default:
		return fmt.Sprint(a), true
	}
}
