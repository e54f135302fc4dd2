// Package placeholder turns resolved configuration values into literal C++
// source tokens.
//
// Placeholders fall into three categories:
//
//   - Scalar: one option value, quoted or mapped to a C++/libtorch/AWS SDK
//     name (DATA, MODEL_PATH, CAST, ...).
//   - List: an ordered comma-joined sequence (INPUTS, FIELDS,
//     NORMALIZE_MEANS, NORMALIZE_STDDEVS). An empty list yields "".
//   - Derived: an expression composed from several options. TENSOR always
//     applies reshape, cast, divide and normalize in that order;
//     OPERATIONS_AND_ARGUMENTS nests the result operations around output.
//
// A placeholder whose option is absent resolves to "". Whether such text is
// reached at all is decided by the region table, not here.
package placeholder
