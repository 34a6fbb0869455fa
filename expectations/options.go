package expectations

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/launchdarkly/go-expectations/framework"
	"github.com/launchdarkly/go-expectations/framework/helpers"
	"github.com/launchdarkly/go-expectations/framework/opt"
)

// DefaultExpectationFile is where expectations are kept when no file is specified, relative to
// the working directory.
var DefaultExpectationFile = filepath.Join("test-files", "test-expectations.json") //nolint:gochecknoglobals

// CIEnvironmentVariable is checked at the time of each assertion to decide the default for
// ShowFullError.
const CIEnvironmentVariable = "CI"

const logPrefix = "[expectations] "

// CompareOptions configures a single assertion. Use the Option functions to set it.
type CompareOptions struct {
	// ExpectationFile is the path of the JSON file. If empty, DefaultExpectationFile is used,
	// relative to WorkingDir.
	ExpectationFile string

	// WorkingDir overrides the process working directory for the default expectation file.
	WorkingDir string

	// NoOverwriteWhenDifferent prevents a recorded value from being replaced when it does not
	// match. A missing value is still recorded.
	NoOverwriteWhenDifferent bool

	// ShowFullError makes a mismatch report the complete values and their diff instead of just
	// the keys. It defaults to true when the CI environment variable is set.
	ShowFullError opt.Maybe[bool]

	// Logger receives a line whenever the expectation file is written.
	Logger framework.Logger
}

// Option is a configuration option for CompareExpectation and related functions.
type Option = helpers.ConfigOption[CompareOptions]

func option(fn func(*CompareOptions)) Option {
	return helpers.ConfigOptionFunc[CompareOptions](func(o *CompareOptions) error {
		fn(o)
		return nil
	})
}

// ExpectationFile sets the path of the expectation file.
func ExpectationFile(path string) Option {
	return option(func(o *CompareOptions) { o.ExpectationFile = path })
}

// WorkingDir sets the directory that the default expectation file is relative to.
func WorkingDir(dir string) Option {
	return option(func(o *CompareOptions) { o.WorkingDir = dir })
}

// NoOverwriteWhenDifferent sets CompareOptions.NoOverwriteWhenDifferent.
func NoOverwriteWhenDifferent(noOverwrite bool) Option {
	return option(func(o *CompareOptions) { o.NoOverwriteWhenDifferent = noOverwrite })
}

// ShowFullError sets CompareOptions.ShowFullError, overriding the CI default.
func ShowFullError(show bool) Option {
	return option(func(o *CompareOptions) { o.ShowFullError = opt.Some(show) })
}

// WithLogger sets CompareOptions.Logger.
func WithLogger(logger framework.Logger) Option {
	return option(func(o *CompareOptions) { o.Logger = logger })
}

func buildCompareOptions(options []Option) (CompareOptions, error) {
	var o CompareOptions
	err := helpers.ApplyOptions(&o, options...)
	return o, err
}

// ResolvedExpectationFile returns the path that an assertion with these options would use.
func (o CompareOptions) ResolvedExpectationFile() (string, error) {
	path := o.ExpectationFile
	if path == "" {
		dir := o.WorkingDir
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("cannot determine working directory for expectations file: %w", err)
			}
			dir = wd
		}
		path = filepath.Join(dir, DefaultExpectationFile)
	}
	if !strings.HasSuffix(path, ".json") {
		return "", &InvalidConfigError{Path: path}
	}
	return path, nil
}

func (o CompareOptions) showFullError() bool {
	if show, ok := o.ShowFullError.Get(); ok {
		return show
	}
	return os.Getenv(CIEnvironmentVariable) != ""
}

func (o CompareOptions) logger() framework.Logger {
	return framework.LoggerWithPrefix(o.Logger, logPrefix)
}
