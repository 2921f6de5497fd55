package cli

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"go.viam.com/ptgnav/motionplan/tpspace"
	"go.viam.com/ptgnav/utils"
)

// Config is the ptgtool configuration file. YAML and JSON are both accepted.
type Config struct {
	PTGs []PTGConfig `yaml:"ptgs" json:"ptgs"`
	// Store is an optional sqlite file caching precomputed trajectory tables.
	Store string `yaml:"store" json:"store"`
	// DumpDir is where the dump command writes trajectory tables.
	DumpDir string `yaml:"dump_dir" json:"dump_dir"`
}

// PTGConfig names one PTG and its attributes.
type PTGConfig struct {
	Name       string                 `yaml:"name" json:"name"`
	Family     string                 `yaml:"family" json:"family"`
	Attributes map[string]interface{} `yaml:"attributes" json:"attributes"`
}

// ConfigFromFile reads and validates a config file.
func ConfigFromFile(path string) (*Config, error) {
	//nolint:gosec
	rd, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %q", path)
	}
	var conf Config
	if err := yaml.Unmarshal(rd, &conf); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %q", path)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate() error {
	if len(conf.PTGs) == 0 {
		return utils.NewConfigValidationFieldRequiredError("", "ptgs")
	}
	var err error
	seen := map[string]bool{}
	for i, p := range conf.PTGs {
		path := fmt.Sprintf("ptgs.%d", i)
		if p.Name == "" {
			err = multierr.Append(err, utils.NewConfigValidationFieldRequiredError(path, "name"))
		} else if seen[p.Name] {
			err = multierr.Append(err, utils.NewConfigValidationError(path, errors.Errorf("duplicate PTG name %q", p.Name)))
		}
		seen[p.Name] = true
		if p.Family == "" {
			err = multierr.Append(err, utils.NewConfigValidationFieldRequiredError(path, "family"))
		}
	}
	return err
}

// GroupEntries converts the config into PTG group entries.
func (conf *Config) GroupEntries() []tpspace.GroupEntry {
	entries := make([]tpspace.GroupEntry, 0, len(conf.PTGs))
	for _, p := range conf.PTGs {
		entries = append(entries, tpspace.GroupEntry{
			Name:       p.Name,
			Family:     p.Family,
			Attributes: utils.AttributeMap(p.Attributes),
		})
	}
	return entries
}
