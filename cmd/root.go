package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/pathpat"
	"github.com/gnolang/pathpat/formatter"
)

const defaultTimeout = 5 * time.Minute

var (
	setFile   string
	timeout   time.Duration
	verbose   bool
	cacheSize int

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "pathpat",
	Short:         "pathpat - match, expand and inspect path patterns",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l

		if cacheSize > 0 {
			c, err := pathpat.NewLRUCache(cacheSize, logger)
			if err != nil {
				return err
			}
			pathpat.SetCache(c)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the command line and reports failures on stderr.
func Execute() error {
	err := rootCmd.Execute()
	_ = logger.Sync()

	var le *labeledError
	switch {
	case err == nil, errors.Is(err, errNoMatch), errors.Is(err, errCheckFailed):
	case errors.As(err, &le):
		fmt.Fprint(os.Stderr, formatter.Diagnostic(le.label, le.err))
	default:
		fmt.Fprint(os.Stderr, formatter.Diagnostic("", err))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&setFile, "set", "f", "", "Pattern set file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Give up after this long (0 for no limit)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
	rootCmd.PersistentFlags().IntVar(&cacheSize, "cache-size", 0, "Keep at most this many compiled patterns (0 keeps the default cache)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(dialectsCmd)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// withTimeout applies the --timeout flag to ctx.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// errNoMatch makes the process exit with status 1 without printing anything.
var errNoMatch = errors.New("no match")

// labeledError remembers where the failing pattern came from.
type labeledError struct {
	label string
	err   error
}

func (e *labeledError) Error() string { return e.label + ": " + e.err.Error() }

func (e *labeledError) Unwrap() error { return e.err }

func label(name string, err error) error {
	if err == nil {
		return nil
	}
	return &labeledError{label: name, err: err}
}

// loadPatterns returns the pattern set from --set, or a set holding only
// source compiled in dialectName.
func loadPatterns(source, dialectName string) (*patternSource, error) {
	if setFile != "" {
		set, err := loadSet(setFile)
		if err != nil {
			return nil, err
		}
		return &patternSource{set: set}, nil
	}
	if dialectName == "" {
		dialectName = pathpat.DefaultDialect
	}
	p, err := pathpat.Compile(source, dialectName)
	if err != nil {
		return nil, label(dialectName, err)
	}
	logger.Debug("compiled pattern",
		zap.String("pattern", source),
		zap.String("dialect", dialectName),
		zap.String("regexp", p.Regexp()))
	return &patternSource{single: p}, nil
}
