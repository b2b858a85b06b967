// settings.go loads the optional site settings file. It carries
// site-level values that rarely change per run (container image,
// in-container mount points, staging poll tuning). Both YAML and JSONC
// are accepted, because HPC sites tend to template one or the other.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// DefaultImage is the samtools container image used when no settings file
// overrides it. The biocontainers images are published for both Docker and
// Singularity (the latter pulls via the docker:// scheme).
const DefaultImage = "quay.io/biocontainers/samtools:1.17--h00cdaf9_0"

const (
	// DefaultInputMount is the fixed in-container mount point for the
	// host directory containing the input BAM.
	DefaultInputMount = "/data/input"

	// DefaultOutputMount is the fixed in-container mount point for the
	// host output directory.
	DefaultOutputMount = "/data/output"
)

const (
	// DefaultStageAttempts is the number of times the input stager polls
	// for the input file before giving up.
	DefaultStageAttempts = 10

	// DefaultStageInterval is the pause between staging polls.
	DefaultStageInterval = time.Second
)

// settingsNames lists the file names probed for a settings file, in
// priority order. The first existing file wins; the rest are ignored.
var settingsNames = []string{
	"samsort.yaml",
	"samsort.yml",
	"samsort.jsonc",
	"samsort.json",
}

// Settings holds site-level configuration loaded from an optional
// settings file. Zero values mean "use the default" — Normalize fills
// them in, so callers always see complete settings.
type Settings struct {
	// Image is the samtools container image reference.
	Image string `yaml:"image" json:"image"`

	// InputMount is the in-container path the input directory is bound to.
	InputMount string `yaml:"inputMount" json:"inputMount"`

	// OutputMount is the in-container path the output directory is bound to.
	OutputMount string `yaml:"outputMount" json:"outputMount"`

	// StageAttempts is the input staging poll count.
	StageAttempts int `yaml:"stageAttempts" json:"stageAttempts"`

	// StageIntervalSeconds is the pause between staging polls, in seconds.
	// Expressed as an integer rather than a duration string to keep the
	// settings file trivial to template.
	StageIntervalSeconds int `yaml:"stageIntervalSeconds" json:"stageIntervalSeconds"`
}

// Normalize fills zero-valued fields with their defaults. It is called by
// LoadSettings, so external callers only need it when constructing
// Settings directly (e.g. in tests).
func (s *Settings) Normalize() {
	if s.Image == "" {
		s.Image = DefaultImage
	}
	if s.InputMount == "" {
		s.InputMount = DefaultInputMount
	}
	if s.OutputMount == "" {
		s.OutputMount = DefaultOutputMount
	}
	if s.StageAttempts <= 0 {
		s.StageAttempts = DefaultStageAttempts
	}
	if s.StageIntervalSeconds <= 0 {
		s.StageIntervalSeconds = int(DefaultStageInterval / time.Second)
	}
}

// StageInterval returns the staging poll interval as a time.Duration.
func (s *Settings) StageInterval() time.Duration {
	return time.Duration(s.StageIntervalSeconds) * time.Second
}

// DefaultSettings returns a fully populated Settings with all defaults.
func DefaultSettings() Settings {
	var s Settings
	s.Normalize()
	return s
}

// LoadSettings looks for a settings file in baseDir and parses the first
// one found. A missing settings file is not an error — the defaults are
// returned. A present but unparsable file IS an error, because silently
// ignoring a broken site configuration would run the wrong image.
func LoadSettings(baseDir string) (Settings, error) {
	for _, name := range settingsNames {
		path := filepath.Join(baseDir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return loadSettingsFile(path)
	}
	return DefaultSettings(), nil
}

// loadSettingsFile reads and parses a single settings file, dispatching
// on the file extension. YAML files go through yaml.v3; JSON and JSONC
// files have comments stripped by jsonc.ToJSON before being handed to
// the standard encoding/json decoder, mirroring how devcontainer-style
// tooling treats .json files as comment-tolerant.
func loadSettingsFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file %q: %w", path, err)
	}

	var s Settings
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("failed to parse settings file %q: %w", path, err)
		}
	default:
		// jsonc.ToJSON replaces comments and trailing commas with
		// whitespace, preserving byte offsets for error reporting.
		if err := json.Unmarshal(jsonc.ToJSON(data), &s); err != nil {
			return Settings{}, fmt.Errorf("failed to parse settings file %q: %w", path, err)
		}
	}

	s.Normalize()
	return s, nil
}
