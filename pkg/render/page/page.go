package page

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/matzehuels/plotcraft/pkg/figure"
)

// DefaultPlotlyURL is the plotly.js bundle pages load when Options.PlotlyURL
// is empty.
const DefaultPlotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// Options configures the generated page.
type Options struct {
	Title     string         // Document title; defaults to the figure title or "plotcraft"
	PlotlyURL string         // Script URL for plotly.js
	Config    map[string]any // plotly config object (displayModeBar, responsive, ...)
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <script src="{{.PlotlyURL}}" charset="utf-8"></script>
  <style>html, body { margin: 0; height: 100%; } #plot { width: 100%; height: 100%; }</style>
</head>
<body>
  <div id="plot"></div>
  <script>
    const fig = {{.Figure}};
    Plotly.newPlot("plot", fig.data, fig.layout, {{.Config}});
  </script>
</body>
</html>
`))

type pageData struct {
	Title     string
	PlotlyURL string
	Figure    template.JS
	Config    template.JS
}

// Write renders fig as a standalone HTML page.
func Write(w io.Writer, fig *figure.Figure, opts Options) error {
	if fig == nil {
		return fmt.Errorf("page: nil figure")
	}
	body, err := fig.JSON()
	if err != nil {
		return fmt.Errorf("encode figure: %w", err)
	}
	config := opts.Config
	if config == nil {
		config = map[string]any{"responsive": true}
	}
	cfg, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	data := pageData{
		Title:     pageTitle(fig, opts.Title),
		PlotlyURL: opts.PlotlyURL,
		Figure:    template.JS(body),
		Config:    template.JS(cfg),
	}
	if data.PlotlyURL == "" {
		data.PlotlyURL = DefaultPlotlyURL
	}
	return pageTmpl.Execute(w, data)
}

// Render is Write into a byte slice.
func Render(fig *figure.Figure, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, fig, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pageTitle(fig *figure.Figure, title string) string {
	if title != "" {
		return title
	}
	if t, ok := fig.Layout["title"].(map[string]any); ok {
		if s, ok := t["text"].(string); ok && s != "" {
			return s
		}
	}
	return "plotcraft"
}
