package crawl

import (
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// DefaultReadWorkers is the number of files read concurrently when Config
// does not specify a value.
const DefaultReadWorkers = 4

// Config encapsulates the settings for crawling a corpus directory.
type Config struct {
	// The number of workers used for reading corpus files.
	ReadWorkers int

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.ReadWorkers == 0 {
		cfg.ReadWorkers = DefaultReadWorkers
	} else if cfg.ReadWorkers < 0 {
		err = multierror.Append(err, xerrors.New("ReadWorkers must be a positive integer"))
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}
	return err
}
