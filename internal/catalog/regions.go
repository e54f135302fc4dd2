package catalog

import (
	"torchgen/internal/option"
	"torchgen/internal/region"
)

// Region labels used by the skeletons.
const (
	LabelBase64           = "BASE64"
	LabelArray            = "ARRAY"
	LabelDynamicShape     = "DYNAMIC_SHAPE"
	LabelValidateShape    = "VALIDATE_SHAPE"
	LabelValidateJSON     = "VALIDATE_JSON"
	LabelValidateField    = "VALIDATE_FIELD"
	LabelNoGrad           = "NO_GRAD"
	LabelNoOptimize       = "NO_OPTIMIZE"
	LabelReportOutput     = "REPORT_OUTPUT"
	LabelReturnOutput     = "RETURN_OUTPUT"
	LabelReturnOutputItem = "RETURN_OUTPUT_ITEM"
	LabelReturnResult     = "RETURN_RESULT"
	LabelReturnResultItem = "RETURN_RESULT_ITEM"
	LabelComputeResult    = "COMPUTE_RESULT"
)

// Regions returns the label table. VALIDATE_SHAPE only checks its own flag:
// it is nested inside DYNAMIC_SHAPE in every skeleton and is never reached
// for a static shape.
//
// The array/item pairs are pairwise exclusive because the options they test
// exclude each other.
func Regions() map[string]region.Predicate {
	return map[string]region.Predicate{
		LabelBase64:           region.Active(option.InputBase64),
		LabelArray:            region.Active(option.InputArray),
		LabelDynamicShape:     region.Dynamic(),
		LabelValidateShape:    region.Active(option.InputValidateShape),
		LabelValidateJSON:     region.Active(option.ValidateJSON),
		LabelValidateField:    region.Active(option.InputValidate),
		LabelNoGrad:           region.Not(region.Active(option.Grad)),
		LabelNoOptimize:       region.Not(region.Active(option.Optimize)),
		LabelReportOutput:     region.Any(region.Active(option.OutputArray), region.Active(option.OutputItem)),
		LabelReturnOutput:     region.Active(option.OutputArray),
		LabelReturnOutputItem: region.Active(option.OutputItem),
		LabelReturnResult:     region.Active(option.ResultArray),
		LabelReturnResultItem: region.Active(option.ResultItem),
		LabelComputeResult:    region.Any(region.Active(option.ResultArray), region.Active(option.ResultItem)),
	}
}
