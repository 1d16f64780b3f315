package es

import (
	"fmt"

	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/table"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

const (
	KindScalar = "scalar"
	KindStream = "stream"
)

// Document is one tidy row as indexed. Scalar rows fill Metric, Value and
// Unit; stream rows fill Stream, X, Y and optionally Z.
type Document struct {
	AnalysisID string   `json:"analysis_id"`
	Kind       string   `json:"kind"`
	Run        string   `json:"run"`
	Iteration  int      `json:"iteration"`
	Metric     string   `json:"metric,omitempty"`
	Value      *float64 `json:"value,omitempty"`
	Unit       string   `json:"unit,omitempty"`
	Stream     string   `json:"stream,omitempty"`
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
	Z          *float64 `json:"z,omitempty"`
}

func scalarDocument(analysisID string, i int, r table.ScalarRow) (string, Document) {
	v := r.Value
	return fmt.Sprintf("%s-scalar-%d", analysisID, i), Document{
		AnalysisID: analysisID,
		Kind:       KindScalar,
		Run:        r.Run,
		Iteration:  r.Iteration,
		Metric:     r.Metric,
		Value:      &v,
		Unit:       r.Unit,
	}
}

func streamDocument(analysisID string, i int, r table.StreamRow) (string, Document) {
	x, y := r.X, r.Y
	return fmt.Sprintf("%s-stream-%d", analysisID, i), Document{
		AnalysisID: analysisID,
		Kind:       KindStream,
		Run:        r.Run,
		Iteration:  r.Iteration,
		Stream:     r.Stream,
		X:          &x,
		Y:          &y,
		Z:          r.Z,
	}
}

func buildMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"analysis_id": types.NewKeywordProperty(),
			"kind":        types.NewKeywordProperty(),
			"run":         types.NewKeywordProperty(),
			"iteration":   types.NewIntegerNumberProperty(),
			"metric":      types.NewKeywordProperty(),
			"value":       types.NewDoubleNumberProperty(),
			"unit":        types.NewKeywordProperty(),
			"stream":      types.NewKeywordProperty(),
			"x":           types.NewDoubleNumberProperty(),
			"y":           types.NewDoubleNumberProperty(),
			"z":           types.NewDoubleNumberProperty(),
		},
	}
}
