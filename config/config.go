// Package config loads the optional settings file and .env overrides used by
// the corpusrank commands.
package config

import (
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/linksrus/corpusrank/pagerank"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// DefaultEnvFile is loaded by LoadEnv when no explicit path is given.
const DefaultEnvFile = ".env"

// ErrNotFound is returned when a settings file does not exist.
var ErrNotFound = xerrors.New("settings file not found")

// Settings holds the values that can be supplied through a YAML settings
// file. Zero values mean "use the built-in default", except for
// DampingFactor where only a missing value does.
type Settings struct {
	DampingFactor          *float64      `yaml:"damping_factor"`
	NumSamples             int           `yaml:"num_samples"`
	MinDeltaForConvergence float64       `yaml:"min_delta_for_convergence"`
	MaxIterations          int           `yaml:"max_iterations"`
	ReadWorkers            int           `yaml:"read_workers"`
	UpdateInterval         time.Duration `yaml:"update_interval"`
	ListenAddress          string        `yaml:"listen_address"`
}

// Load parses the YAML settings file at path.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, xerrors.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, xerrors.Errorf("read settings: %w", err)
	}

	var s Settings
	if err = yaml.Unmarshal(data, &s); err != nil {
		return nil, xerrors.Errorf("parse settings %s: %w", path, err)
	}
	if err = s.validate(); err != nil {
		return nil, xerrors.Errorf("settings %s: %w", path, err)
	}
	return &s, nil
}

func (s *Settings) validate() error {
	var err error
	if s.DampingFactor != nil && !(*s.DampingFactor >= 0 && *s.DampingFactor <= 1) {
		err = multierror.Append(err, xerrors.New("damping_factor must be in the range [0, 1]"))
	}
	if s.NumSamples < 0 {
		err = multierror.Append(err, xerrors.New("num_samples must not be negative"))
	}
	if s.MinDeltaForConvergence < 0 || s.MinDeltaForConvergence >= 1 {
		err = multierror.Append(err, xerrors.New("min_delta_for_convergence must be in the range [0, 1)"))
	}
	if s.MaxIterations < 0 {
		err = multierror.Append(err, xerrors.New("max_iterations must not be negative"))
	}
	if s.ReadWorkers < 0 {
		err = multierror.Append(err, xerrors.New("read_workers must not be negative"))
	}
	if s.UpdateInterval < 0 {
		err = multierror.Append(err, xerrors.New("update_interval must not be negative"))
	}
	return err
}

// CalculatorConfig returns a pagerank calculator configuration populated
// from the settings. Fields left unset are filled in by the calculator.
func (s *Settings) CalculatorConfig() pagerank.Config {
	cfg := pagerank.Config{
		NumSamples:             s.NumSamples,
		MinDeltaForConvergence: s.MinDeltaForConvergence,
		MaxIterations:          s.MaxIterations,
	}
	if s.DampingFactor != nil {
		damping := *s.DampingFactor
		cfg.DampingFactor = &damping
	}
	return cfg
}

// LoadEnv populates the process environment from a .env file. Variables that
// are already set are left untouched. When path is empty DefaultEnvFile is
// used and a missing file is not an error.
func LoadEnv(path string) error {
	required := path != ""
	if !required {
		path = DefaultEnvFile
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return xerrors.Errorf("load env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return xerrors.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
