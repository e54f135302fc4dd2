package placeholder

import (
	"strconv"
	"strings"

	"torchgen/internal/option"
	"torchgen/internal/resolve"
)

// Built-in placeholder names.
const (
	Data                  = "DATA"
	ModelPath             = "MODEL_PATH"
	Divide                = "DIVIDE"
	OutputName            = "OUTPUT_NAME"
	ResultName            = "RESULT_NAME"
	DataType              = "DATA_TYPE"
	DataFunc              = "DATA_FUNC"
	TorchDataType         = "TORCH_DATA_TYPE"
	Cast                  = "CAST"
	OutputCast            = "OUTPUT_CAST"
	ResultCast            = "RESULT_CAST"
	TorchOutputType       = "TORCH_OUTPUT_TYPE"
	TorchResultType       = "TORCH_RESULT_TYPE"
	OutputType            = "OUTPUT_TYPE"
	ResultType            = "RESULT_TYPE"
	AWSOutputFunction     = "AWS_OUTPUT_FUNCTION"
	AWSResultFunction     = "AWS_RESULT_FUNCTION"
	AWSOutputItemFunction = "AWS_OUTPUT_ITEM_FUNCTION"
	AWSResultItemFunction = "AWS_RESULT_ITEM_FUNCTION"

	Inputs           = "INPUTS"
	Fields           = "FIELDS"
	NormalizeMeans   = "NORMALIZE_MEANS"
	NormalizeStddevs = "NORMALIZE_STDDEVS"

	Tensor                 = "TENSOR"
	OperationsAndArguments = "OPERATIONS_AND_ARGUMENTS"
)

var (
	// torchTypes maps cast and array element names to libtorch scalar types.
	torchTypes = map[string]string{
		"byte":   "torch::kUInt8",
		"char":   "torch::kInt8",
		"short":  "torch::kInt16",
		"int":    "torch::kInt32",
		"long":   "torch::kInt64",
		"half":   "torch::kFloat16",
		"float":  "torch::kFloat32",
		"double": "torch::kFloat64",
	}

	// cTypes maps array element names to the C++ type the JSON values are
	// stored as before the tensor is built.
	cTypes = map[string]string{
		"byte":   "uint8_t",
		"char":   "int8_t",
		"short":  "int16_t",
		"int":    "int32_t",
		"long":   "int64_t",
		"float":  "float",
		"double": "double",
	}

	// jsonGetters maps array element names to the JsonView accessor suffix.
	jsonGetters = map[string]string{
		"byte":   "Integer",
		"char":   "Integer",
		"short":  "Integer",
		"int":    "Integer",
		"long":   "Int64",
		"float":  "Double",
		"double": "Double",
	}

	// reportTorchTypes maps report types to the tensor type reported values
	// are cast to. libtorch has no usable bool element type here, so bool is
	// carried as int8.
	reportTorchTypes = map[string]string{
		"bool":   "torch::kInt8",
		"int":    "torch::kInt32",
		"long":   "torch::kInt64",
		"double": "torch::kFloat64",
	}

	// reportCTypes is the C++ element type matching reportTorchTypes.
	reportCTypes = map[string]string{
		"bool":   "int8_t",
		"int":    "int32_t",
		"long":   "int64_t",
		"double": "double",
	}

	// reportJSON maps report types to the JsonValue setter suffix.
	reportJSON = map[string]string{
		"bool":   "Bool",
		"int":    "Integer",
		"long":   "Int64",
		"double": "Double",
	}
)

// reportType returns the type of whichever of the array/item pair is set.
func reportType(cfg *resolve.Config, array, item string) string {
	if cfg.Has(array) {
		return cfg.String(array)
	}

	return cfg.String(item)
}

func scalars() map[string]Func {
	outputType := func(cfg *resolve.Config) string {
		return reportType(cfg, option.OutputArray, option.OutputItem)
	}

	resultType := func(cfg *resolve.Config) string {
		return reportType(cfg, option.ResultArray, option.ResultItem)
	}

	withPrefix := func(prefix string, typ func(*resolve.Config) string) Func {
		return func(cfg *resolve.Config) string {
			suffix := reportJSON[typ(cfg)]
			if suffix == "" {
				return ""
			}

			return prefix + suffix
		}
	}

	return map[string]Func{
		Data:       func(cfg *resolve.Config) string { return Quote(cfg.String(option.InputName)) },
		ModelPath:  func(cfg *resolve.Config) string { return Quote(cfg.String(option.Model)) },
		OutputName: func(cfg *resolve.Config) string { return Quote(cfg.String(option.OutputName)) },
		ResultName: func(cfg *resolve.Config) string { return Quote(cfg.String(option.ResultName)) },
		Divide:     divide,
		DataType: func(cfg *resolve.Config) string { return cTypes[cfg.String(option.InputArray)] },
		DataFunc: func(cfg *resolve.Config) string {
			suffix := jsonGetters[cfg.String(option.InputArray)]
			if suffix == "" {
				return ""
			}

			return "As" + suffix
		},
		TorchDataType:   torchDataType,
		Cast:            cast,
		OutputCast:      func(cfg *resolve.Config) string { return reportTorchTypes[outputType(cfg)] },
		ResultCast:      func(cfg *resolve.Config) string { return reportTorchTypes[resultType(cfg)] },
		TorchOutputType: func(cfg *resolve.Config) string { return reportCTypes[outputType(cfg)] },
		TorchResultType: func(cfg *resolve.Config) string { return reportCTypes[resultType(cfg)] },
		OutputType:      outputType,
		ResultType:      resultType,

		AWSOutputFunction:     withPrefix("As", outputType),
		AWSResultFunction:     withPrefix("As", resultType),
		AWSOutputItemFunction: withPrefix("With", outputType),
		AWSResultItemFunction: withPrefix("With", resultType),
	}
}

func lists() map[string]Func {
	return map[string]Func{
		Inputs: inputs,
		Fields: func(cfg *resolve.Config) string {
			fields := cfg.ShapeFields()
			out := make([]string, len(fields))

			for i, f := range fields {
				out[i] = Quote(f)
			}

			return strings.Join(out, ", ")
		},
		NormalizeMeans:   numbers(option.NormalizeMeans),
		NormalizeStddevs: numbers(option.NormalizeStddevs),
	}
}

func divide(cfg *resolve.Config) string {
	if !cfg.Has(option.InputDivide) {
		return ""
	}

	return Double(cfg.Number(option.InputDivide))
}

func cast(cfg *resolve.Config) string {
	return torchTypes[cfg.String(option.InputCast)]
}

// torchDataType is the element type of the raw buffer: bytes for base64,
// otherwise the declared array element type.
func torchDataType(cfg *resolve.Config) string {
	if cfg.Active(option.InputBase64) {
		return torchTypes["byte"]
	}

	return torchTypes[cfg.String(option.InputArray)]
}

// inputs renders the reshape dimensions. Field dimensions are read from the
// request at run time.
func inputs(cfg *resolve.Config) string {
	var out []string

	for _, dim := range cfg.List(option.InputShape) {
		switch d := dim.(type) {
		case int64:
			out = append(out, strconv.FormatInt(d, 10))
		case string:
			out = append(out, "json_view.GetInteger("+Quote(d)+")")
		}
	}

	return strings.Join(out, ", ")
}

func numbers(name string) Func {
	return func(cfg *resolve.Config) string {
		values := cfg.Numbers(name)
		out := make([]string, len(values))

		for i, v := range values {
			out[i] = Double(v)
		}

		return strings.Join(out, ", ")
	}
}

func derived() map[string]Func {
	return map[string]Func{
		Tensor:                 tensor,
		OperationsAndArguments: operationsAndArguments,
	}
}

// tensor builds the input tensor expression. The steps always run in the
// same order: from_blob, reshape, cast, divide, normalize.
func tensor(cfg *resolve.Config) string {
	expr := "torch::from_blob(data_pointer, {static_cast<long>(data_length)}, " + torchDataType(cfg) + ")" +
		".reshape({" + inputs(cfg) + "})"

	if cfg.Has(option.InputCast) {
		expr += ".toType(" + cast(cfg) + ")"
	}

	if cfg.Has(option.InputDivide) {
		expr = "(" + expr + " / " + divide(cfg) + ")"
	}

	if cfg.Has(option.NormalizeMeans) {
		expr = "torch::data::transforms::Normalize<>({" + numbers(option.NormalizeMeans)(cfg) + "}, {" +
			numbers(option.NormalizeStddevs)(cfg) + "})(" + expr + ")"
	}

	return expr
}

// operationsAndArguments renders the result expression over output: either
// the verbatim custom code or each operation wrapped around the previous one,
// with its argument appended when one is given.
func operationsAndArguments(cfg *resolve.Config) string {
	if cfg.Has(option.ResultCode) {
		return cfg.String(option.ResultCode)
	}

	ops := cfg.Strings(option.ResultOperations)
	if len(ops) == 0 {
		return ""
	}

	args := cfg.List(option.ResultArguments)
	expr := "output"

	for i, op := range ops {
		params := []string{expr}

		if i < len(args) {
			if a, ok := argument(args[i]); ok {
				params = append(params, a)
			}
		}

		expr = "torch::" + op + "(" + strings.Join(params, ", ") + ")"
	}

	return expr
}
