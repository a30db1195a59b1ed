package cache

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// StepsKey returns the key for the steps computed from a dataset.
	StepsKey(dataHash string, opts StepsKeyOpts) string

	// LayoutKey returns the key for a layout computed from steps.
	LayoutKey(stepsHash string, opts LayoutKeyOpts) string

	// ArtifactKey returns the key for a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// StepsKeyOpts holds the inputs to step calculation besides the data itself.
type StepsKeyOpts struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// LayoutKeyOpts holds the layout options that affect geometry.
type LayoutKeyOpts struct {
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Margins   [4]float64 `json:"margins"`
	Padding   float64    `json:"padding"`
	Nice      bool       `json:"nice"`
	TickCount int        `json:"tick_count"`
	YLabel    string     `json:"y_label"`
}

// ArtifactKeyOpts holds the render options that affect output bytes.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Style  string  `json:"style"`
	Theme  string  `json:"theme,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
	Font   string  `json:"font,omitempty"`
}

// DefaultKeyer hashes stage inputs into prefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// StepsKey returns "steps:<sha256>".
func (DefaultKeyer) StepsKey(dataHash string, opts StepsKeyOpts) string {
	return hashKey("steps", dataHash, opts)
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(stepsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", stepsHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
