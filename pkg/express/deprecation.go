package express

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plotcraft/pkg/observability"
)

const mapLibreURL = "https://plotly.com/python/mapbox-to-maplibre/"

// Deprecation is an advisory notice emitted by a deprecated chart
// constructor. The constructor still runs.
type Deprecation struct {
	Function    string
	Replacement string
	URL         string
}

func (d Deprecation) String() string {
	s := fmt.Sprintf("*%s* is deprecated! Use *%s* instead.", d.Function, d.Replacement)
	if d.URL != "" {
		s += " Learn more at: " + d.URL
	}
	return s
}

var (
	noticeMu sync.RWMutex
	notice   = func(d Deprecation) { log.Warn(d.String()) }
)

// SetNoticeHandler replaces the function that receives deprecation notices.
// Passing nil silences them. It returns the previous handler.
func SetNoticeHandler(h func(Deprecation)) func(Deprecation) {
	noticeMu.Lock()
	defer noticeMu.Unlock()
	prev := notice
	if h == nil {
		h = func(Deprecation) {}
	}
	notice = h
	return prev
}

func deprecated(function, replacement string) {
	d := Deprecation{Function: function, Replacement: replacement, URL: mapLibreURL}
	observability.Validation().OnDeprecation(context.Background(), function)
	noticeMu.RLock()
	h := notice
	noticeMu.RUnlock()
	h(d)
}
