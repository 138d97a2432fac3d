package quantile

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/mat"

	qerrors "github.com/YuminosukeSato/quantileboost/pkg/errors"
)

// ObjectiveName tags serialized configuration documents. Loading a document
// with any other name is a schema mismatch.
const ObjectiveName = "reg:quantileerror"

// DefaultMetric is the evaluation metric paired with this objective.
const DefaultMetric = "quantile"

// Param carries the objective's configuration as it appears in args and in
// serialized models.
type Param struct {
	QuantileAlpha []float64 `json:"quantile_alpha"`
}

// Validate checks that the level list is usable: non-empty and every level
// finite. Levels 0 and 1 are degenerate but accepted.
func (p Param) Validate() error {
	if len(p.QuantileAlpha) == 0 {
		return qerrors.NewConfigurationError("Configure", "quantile_alpha must not be empty", nil)
	}
	for _, a := range p.QuantileAlpha {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return qerrors.NewConfigurationError("Configure", "quantile_alpha must be finite", a)
		}
	}
	return nil
}

// LabelInfo bundles one worker shard's ground truth: a single label column
// and optional per-sample weights. A nil Weights slice means uniform weight
// 1.0 for every sample.
type LabelInfo struct {
	Labels  *mat.Dense
	Weights []float64
}

// NumSamples is the number of rows on this shard, zero when no labels are
// attached.
func (l LabelInfo) NumSamples() int {
	if l.Labels == nil {
		return 0
	}
	r, _ := l.Labels.Dims()
	return r
}

// columns returns the label column count, zero when no labels are attached.
func (l LabelInfo) columns() int {
	if l.Labels == nil {
		return 0
	}
	_, c := l.Labels.Dims()
	return c
}

// weight returns sample i's weight, defaulting to 1.0 without weights.
func (l LabelInfo) weight(i int) float64 {
	if l.Weights == nil {
		return 1.0
	}
	return l.Weights[i]
}

// NewFromArgs builds an Objective from an external args/options source such
// as a trainer's parameter map. The "quantile_alpha" key has no default: a
// missing or empty value fails configuration. A bare float configures a
// single level.
func NewFromArgs(args map[string]interface{}) (*Objective, error) {
	raw, ok := args["quantile_alpha"]
	if !ok {
		return nil, qerrors.NewConfigurationError("NewFromArgs", "quantile_alpha must be supplied", nil)
	}

	var alphas []float64
	switch v := raw.(type) {
	case []float64:
		alphas = v
	case float64:
		alphas = []float64{v}
	case []interface{}:
		alphas = make([]float64, 0, len(v))
		for _, e := range v {
			f, ok := e.(float64)
			if !ok {
				return nil, qerrors.NewConfigurationError("NewFromArgs", "quantile_alpha entries must be floats", e)
			}
			alphas = append(alphas, f)
		}
	default:
		return nil, qerrors.NewConfigurationError("NewFromArgs", "quantile_alpha must be a float list", raw)
	}

	return New(alphas...)
}

// objectiveDoc is the serialized form of the objective:
//
//	{"name":"reg:quantileerror","quantile_loss_param":{"quantile_alpha":[...]}}
type objectiveDoc struct {
	Name  string `json:"name"`
	Param Param  `json:"quantile_loss_param"`
}

// MarshalJSON serializes the configured level list under the fixed objective
// name.
func (o *Objective) MarshalJSON() ([]byte, error) {
	doc := objectiveDoc{
		Name:  ObjectiveName,
		Param: Param{QuantileAlpha: o.Alphas()},
	}
	return json.Marshal(doc)
}

// UnmarshalJSON loads a serialized objective, validating both the name tag
// and the level list.
func (o *Objective) UnmarshalJSON(data []byte) error {
	var doc objectiveDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return qerrors.Wrap(err, "quantileboost: malformed objective document")
	}
	if doc.Name != ObjectiveName {
		return qerrors.NewSchemaMismatchError(ObjectiveName, doc.Name)
	}
	return o.Configure(doc.Param.QuantileAlpha)
}

// DefaultMetricName returns the identifier of the evaluation metric the
// surrounding framework should pair with this objective.
func (o *Objective) DefaultMetricName() string {
	return DefaultMetric
}

// DefaultMetricConfig returns the metric configuration document carrying the
// same quantile_loss_param payload as the objective itself.
func (o *Objective) DefaultMetricConfig() ([]byte, error) {
	doc := objectiveDoc{
		Name:  DefaultMetric,
		Param: Param{QuantileAlpha: o.Alphas()},
	}
	return json.Marshal(doc)
}
