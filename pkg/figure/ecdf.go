package figure

import (
	"sort"

	"github.com/matzehuels/plotcraft/pkg/errors"
)

// ECDF normalisations and modes.
const (
	ECDFNormProbability = "probability"
	ECDFNormPercent     = "percent"

	ECDFModeStandard      = "standard"
	ECDFModeReversed      = "reversed"
	ECDFModeComplementary = "complementary"
)

// ecdf sorts the sample and returns it with its cumulative distribution.
// weights may be nil, in which case every observation counts once. norm ""
// leaves the counts unnormalised.
func ecdf(sample, weights []any, norm, mode string) (xs, ys []any, err error) {
	type obs struct{ v, w float64 }
	points := make([]obs, 0, len(sample))
	total := 0.0
	for i, raw := range sample {
		if raw == nil {
			continue
		}
		v, ok := asFloat(raw)
		if !ok {
			return nil, nil, errors.New(errors.ErrCodeInvalidInput, "ecdf value %v is not a number", raw)
		}
		w := 1.0
		if weights != nil {
			if w, ok = asFloat(weights[i]); !ok {
				return nil, nil, errors.New(errors.ErrCodeInvalidInput, "ecdf weight %v is not a number", weights[i])
			}
		}
		points = append(points, obs{v, w})
		total += w
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].v < points[j].v })

	scale := 1.0
	switch norm {
	case ECDFNormProbability:
		if total != 0 {
			scale = 1 / total
		}
	case ECDFNormPercent:
		if total != 0 {
			scale = 100 / total
		}
	case "":
	default:
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "unknown ecdfnorm %q", norm)
	}

	xs = make([]any, len(points))
	ys = make([]any, len(points))
	cum := 0.0
	switch mode {
	case ECDFModeStandard, "":
		for i, p := range points {
			cum += p.w
			xs[i], ys[i] = p.v, cum*scale
		}
	case ECDFModeReversed:
		for i := len(points) - 1; i >= 0; i-- {
			cum += points[i].w
			xs[i], ys[i] = points[i].v, cum*scale
		}
	case ECDFModeComplementary:
		for i, p := range points {
			cum += p.w
			xs[i], ys[i] = p.v, (total-cum)*scale
		}
	default:
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "unknown ecdfmode %q", mode)
	}
	return xs, ys, nil
}
