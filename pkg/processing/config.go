package processing

type ReadingLevel string

const (
	ReadingLevelElementary ReadingLevel = "elementary"
	ReadingLevelMiddle     ReadingLevel = "middle"
	ReadingLevelHigh       ReadingLevel = "high"
)

const DefaultMaxVisuals = 3

type Config struct {
	Simplification SimplificationConfig `json:"simplification" yaml:"simplification"`

	Audio   AudioConfig   `json:"audio" yaml:"audio"`
	Visuals VisualsConfig `json:"visuals" yaml:"visuals"`
}

type SimplificationConfig struct {
	ReadingLevel ReadingLevel `json:"readingLevel,omitempty" yaml:"reading_level"`
	Language     string       `json:"language,omitempty" yaml:"language"`
}

type AudioConfig struct {
	Disabled bool `json:"disabled,omitempty" yaml:"disabled"`

	Voice string  `json:"voice,omitempty" yaml:"voice"`
	Speed float64 `json:"speed,omitempty" yaml:"speed"`
	Pitch float64 `json:"pitch,omitempty" yaml:"pitch"`

	Language string `json:"language,omitempty" yaml:"language"`
}

type VisualsConfig struct {
	Disabled bool `json:"disabled,omitempty" yaml:"disabled"`

	MaxVisuals int          `json:"maxVisuals,omitempty" yaml:"max_visuals"`
	Types      []VisualType `json:"types,omitempty" yaml:"types"`
}

func (c *VisualsConfig) Limit() int {
	if c == nil || c.MaxVisuals <= 0 || c.MaxVisuals > DefaultMaxVisuals {
		return DefaultMaxVisuals
	}

	return c.MaxVisuals
}
