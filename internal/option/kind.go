package option

// Kind is the shape of an option value.
type Kind int

const (
	_ Kind = iota // zero value is invalid

	// KindFlag is a boolean switch; it is active only when true.
	KindFlag
	// KindScalar is a single string or number.
	KindScalar
	// KindChoice is one value out of a fixed set of strings.
	KindChoice
	// KindList is an ordered list of scalars. A single scalar is accepted as
	// a list of one.
	KindList
)

// String returns the human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindFlag:
		return "flag"
	case KindScalar:
		return "scalar"
	case KindChoice:
		return "choice"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// ValueType is the type of a scalar value or of each list element.
type ValueType int

const (
	_ ValueType = iota

	// TypeString is any non-empty string.
	TypeString
	// TypeNumber is an integer or floating-point number.
	TypeNumber
	// TypeInteger is a whole number.
	TypeInteger
	// TypeIdent is a C++ identifier, e.g. a libtorch function name.
	TypeIdent
	// TypeDimension is a tensor dimension: a positive integer, -1 (inferred),
	// or the name of a request field carrying the size.
	TypeDimension
	// TypeArgument is an operation argument: number, bool, null or a
	// libtorch token such as torch::kFloat32.
	TypeArgument
)

// String returns the human-readable type name.
func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeInteger:
		return "integer"
	case TypeIdent:
		return "identifier"
	case TypeDimension:
		return "dimension"
	case TypeArgument:
		return "argument"
	default:
		return "unknown"
	}
}
