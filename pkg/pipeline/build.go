package pipeline

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/plotcraft/pkg/cache"
	"github.com/matzehuels/plotcraft/pkg/express"
	"github.com/matzehuels/plotcraft/pkg/figure"
	"github.com/matzehuels/plotcraft/pkg/frame"
)

// Request turns a spec into a figure request over src. When src is nil the
// spec's own data is loaded. The chart is returned so callers can report
// deprecations.
func Request(spec *Spec, src frame.Source) (figure.Request, express.Chart, error) {
	chart, err := express.Lookup(spec.Chart)
	if err != nil {
		return figure.Request{}, express.Chart{}, err
	}
	if src == nil {
		tbl, err := spec.Frame()
		if err != nil {
			return figure.Request{}, chart, err
		}
		src = tbl
	}
	params, err := spec.Params()
	if err != nil {
		return figure.Request{}, chart, err
	}
	req, err := chart.Request(src, params)
	if err != nil {
		return figure.Request{}, chart, err
	}
	return req, chart, nil
}

// RequestHash hashes a request together with the contents of its frame.
func RequestHash(req figure.Request) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(req); err != nil {
		return "", err
	}
	if src := req.Args.Frame; src != nil {
		for _, name := range src.Columns() {
			values, _ := src.Column(name)
			if err := enc.Encode([]any{name, values}); err != nil {
				return "", err
			}
		}
	}
	return cache.Hash(buf.Bytes()), nil
}

func decodeFigure(data []byte) (*figure.Figure, error) {
	var fig figure.Figure
	if err := json.Unmarshal(data, &fig); err != nil {
		return nil, err
	}
	return &fig, nil
}
