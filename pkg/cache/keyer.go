package cache

// Keyer derives cache keys.
type Keyer interface {
	// FigureKey keys a built figure by the hash of its request.
	FigureKey(requestHash string, opts FigureKeyOpts) string

	// ArtifactKey keys a rendered output by the hash of its figure.
	ArtifactKey(figureHash string, opts ArtifactKeyOpts) string
}

// FigureKeyOpts holds the build settings that change a figure.
type FigureKeyOpts struct {
	Strict bool `json:"strict"`
}

// ArtifactKeyOpts holds the render settings that change an artifact.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Title     string `json:"title,omitempty"`
	PlotlyURL string `json:"plotly_url,omitempty"`
}

// DefaultKeyer hashes its inputs into "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// FigureKey implements Keyer.
func (DefaultKeyer) FigureKey(requestHash string, opts FigureKeyOpts) string {
	return hashKey("figure", requestHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(figureHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", figureHash, opts)
}
