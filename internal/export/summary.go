package export

import (
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/influencer-kpi/internal/model"
)

// Summary is the YAML executive summary document.
type Summary struct {
	RunID     string                      `yaml:"run_id,omitempty"`
	Executive model.ExecutiveKPIs         `yaml:"executive"`
	Platforms []model.PlatformPerformance `yaml:"platforms"`
}

// WriteSummary encodes s as YAML.
func WriteSummary(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return eris.Wrap(err, "export: encode summary")
	}
	if err := enc.Close(); err != nil {
		return eris.Wrap(err, "export: close summary encoder")
	}
	return nil
}
