package option

import "slices"

// Built-in option names.
const (
	Grad         = "grad"
	Optimize     = "optimize"
	ValidateJSON = "validate_json"
	Model        = "model"
	Runtime      = "runtime"

	InputName          = "input.name"
	InputValidate      = "input.validate"
	InputBase64        = "input.base64"
	InputArray         = "input.array"
	InputShape         = "input.shape"
	InputValidateShape = "input.validate_shape"
	InputCast          = "input.cast"
	InputDivide        = "input.divide"

	NormalizeMeans   = "normalize.means"
	NormalizeStddevs = "normalize.stddevs"

	OutputArray = "output.array"
	OutputItem  = "output.item"
	OutputName  = "output.name"

	ResultArray      = "result.array"
	ResultItem       = "result.item"
	ResultName       = "result.name"
	ResultOperations = "result.operations"
	ResultArguments  = "result.arguments"
	ResultCode       = "result.code"
)

// Runtime choices.
const (
	RuntimeLambda = "lambda"
	RuntimeModule = "module"
)

// DefaultModelPath is where layers unpack the TorchScript model.
const DefaultModelPath = "/opt/model.ptc"

var (
	// ArrayTypes are the element types accepted for nested-array input.
	ArrayTypes = []string{"byte", "char", "short", "int", "long", "float", "double"}
	// CastTypes are the tensor types the input can be cast to.
	CastTypes = []string{"byte", "char", "short", "int", "long", "half", "float", "double"}
	// FloatingCastTypes are the cast types normalization can work with.
	FloatingCastTypes = []string{"half", "float", "double"}
	// ReportTypes are the element types output and result can be reported as.
	ReportTypes = []string{"int", "long", "double", "bool"}
)

func builtinOptions() []Option {
	return []Option{
		{
			Name: Grad, Kind: KindFlag, Default: false,
			Description: "keep autograd enabled during inference",
		},
		{
			Name: Optimize, Kind: KindFlag, Default: false,
			Description: "keep the TorchScript graph executor optimization pass",
		},
		{
			Name: ValidateJSON, Kind: KindFlag, Default: true,
			Description: "reject requests whose payload is not valid JSON",
		},
		{
			Name: Model, Kind: KindScalar, Type: TypeString, Default: DefaultModelPath,
			Description: "path of the TorchScript model inside the function",
		},
		{
			Name: Runtime, Kind: KindChoice, Choices: []string{RuntimeLambda, RuntimeModule}, Default: RuntimeLambda,
			Description: "lambda emits a complete function, module emits an embeddable inference routine",
		},
		{
			Name: InputName, Kind: KindScalar, Type: TypeString, Default: "data",
			Description: "request field holding the input data",
		},
		{
			Name: InputValidate, Kind: KindFlag, Default: true,
			Description: "check that the data field exists and has the expected type",
		},
		{
			Name: InputBase64, Kind: KindFlag, Default: false,
			Excludes:    []string{InputArray},
			Description: "data field is a base64 string of raw bytes",
		},
		{
			Name: InputArray, Kind: KindChoice, Choices: ArrayTypes,
			Description: "data field is a flat JSON array with elements of this type",
		},
		{
			Name: InputShape, Kind: KindList, Type: TypeDimension, Required: true, MinLen: 2,
			Description: "tensor shape; strings name request fields carrying the size",
		},
		{
			Name: InputValidateShape, Kind: KindFlag, Default: true,
			Description: "check that every shape field exists and is an integer",
		},
		{
			Name: InputCast, Kind: KindChoice, Choices: CastTypes,
			Description: "tensor type the input is cast to after decoding",
		},
		{
			Name: InputDivide, Kind: KindScalar, Type: TypeNumber,
			Description: "divisor applied after the cast, e.g. 255 for images",
		},
		{
			Name: NormalizeMeans, Kind: KindList, Type: TypeNumber, MinLen: 1,
			Requires: []Dependency{
				{Option: InputCast, Values: FloatingCastTypes},
				{Option: NormalizeStddevs},
			},
			Description: "per-channel means for normalization",
		},
		{
			Name: NormalizeStddevs, Kind: KindList, Type: TypeNumber, MinLen: 1,
			Requires:    []Dependency{{Option: NormalizeMeans}},
			Description: "per-channel standard deviations for normalization",
		},
		{
			Name: OutputArray, Kind: KindChoice, Choices: ReportTypes,
			Excludes:    []string{OutputItem},
			Description: "report the raw output tensor as an array of this type",
		},
		{
			Name: OutputItem, Kind: KindChoice, Choices: ReportTypes,
			Description: "report the raw output tensor as a single item of this type",
		},
		{
			Name: OutputName, Kind: KindScalar, Type: TypeString, Default: "output",
			Description: "response field holding the output",
		},
		{
			Name: ResultArray, Kind: KindChoice, Choices: ReportTypes,
			Excludes:    []string{ResultItem},
			Description: "report the derived result tensor as an array of this type",
		},
		{
			Name: ResultItem, Kind: KindChoice, Choices: ReportTypes,
			Description: "report the derived result tensor as a single item of this type",
		},
		{
			Name: ResultName, Kind: KindScalar, Type: TypeString, Default: "result",
			Description: "response field holding the result",
		},
		{
			Name: ResultOperations, Kind: KindList, Type: TypeIdent, MinLen: 1,
			Description: "libtorch functions applied in order to the output, e.g. argmax",
		},
		{
			Name: ResultArguments, Kind: KindList, Type: TypeArgument, MinLen: 1,
			Requires:    []Dependency{{Option: ResultOperations}},
			Description: "extra argument for each operation; null skips one",
		},
		{
			Name: ResultCode, Kind: KindScalar, Type: TypeString,
			Excludes:    []string{ResultOperations},
			Description: "verbatim C++ expression over output computing the result",
		},
	}
}

func builtinGroups() []Group {
	return []Group{
		{
			Options:     []string{InputBase64, InputArray},
			Description: "an input encoding must be selected",
		},
		{
			Options:     []string{OutputArray, OutputItem, ResultArray, ResultItem},
			Description: "at least one reporting mode must be selected",
		},
		{
			When:        ResultArray,
			Options:     []string{ResultOperations, ResultCode},
			Description: "result reporting needs operations or code",
		},
		{
			When:        ResultItem,
			Options:     []string{ResultOperations, ResultCode},
			Description: "result reporting needs operations or code",
		},
		{
			When:        ResultOperations,
			Options:     []string{ResultArray, ResultItem},
			Description: "operations are only used when a result is reported",
		},
		{
			When:        ResultCode,
			Options:     []string{ResultArray, ResultItem},
			Description: "code is only used when a result is reported",
		},
	}
}

func builtinChecks() []Check {
	return []Check{
		{
			Options: []string{InputDivide},
			Message: "divisor must not be zero",
			Valid: func(get Lookup) bool {
				d, _ := get(InputDivide)

				return d.(float64) != 0
			},
		},
		{
			Options: []string{NormalizeMeans, NormalizeStddevs},
			Message: "means and stddevs must have the same length",
			Valid: func(get Lookup) bool {
				means, _ := get(NormalizeMeans)
				stddevs, _ := get(NormalizeStddevs)

				return len(means.([]any)) == len(stddevs.([]any))
			},
		},
		{
			Options: []string{NormalizeMeans, InputShape},
			Message: "means must have one value or one per channel (second shape dimension)",
			Valid: func(get Lookup) bool {
				means, _ := get(NormalizeMeans)
				shape, _ := get(InputShape)

				dims := shape.([]any)
				if len(dims) < 2 {
					return true
				}

				channels, fixed := dims[1].(int64)
				if !fixed || channels <= 0 {
					return true
				}

				n := len(means.([]any))

				return n == 1 || int64(n) == channels
			},
		},
		{
			Options: []string{OutputName, ResultName},
			Message: "output and result are both reported and need different names",
			Valid: func(get Lookup) bool {
				if !anyActive(get, OutputArray, OutputItem) || !anyActive(get, ResultArray, ResultItem) {
					return true
				}

				output, _ := get(OutputName)
				result, _ := get(ResultName)

				return output != result
			},
		},
		{
			Options: []string{ResultArguments, ResultOperations},
			Message: "more arguments than operations",
			Valid: func(get Lookup) bool {
				args, _ := get(ResultArguments)
				ops, _ := get(ResultOperations)

				return len(args.([]any)) <= len(ops.([]any))
			},
		},
	}
}

func anyActive(get Lookup, names ...string) bool {
	for _, name := range names {
		if _, ok := get(name); ok {
			return true
		}
	}

	return false
}

// IsFloatingCast reports whether a cast type is a floating-point type.
func IsFloatingCast(cast string) bool {
	return slices.Contains(FloatingCastTypes, cast)
}
