package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/pathpat/formatter"
	"github.com/gnolang/pathpat/patternset"
)

var watch bool

// errCheckFailed makes the process exit with status 1 once the failures
// have been reported.
var errCheckFailed = errors.New("check failed")

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Validate pattern set files",
	Long: `Compiles every pattern of the given files, of the .yaml and .yml files found
in the given directories, and of the file given with --set. With --watch, a
single file is checked again each time it changes until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := args
		if setFile != "" {
			paths = append(paths, setFile)
		}
		if len(paths) == 0 {
			return errors.New("please provide pattern set files or directories")
		}
		files, err := patternset.Discover(paths...)
		if err != nil {
			return err
		}

		if !watch {
			return runCheck(cmd.OutOrStdout(), files)
		}
		if len(files) != 1 {
			return fmt.Errorf("--watch needs exactly one file, got %d", len(files))
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runCheckWatch(ctx, cmd.OutOrStdout(), files[0])
	},
}

func init() {
	checkCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Check again whenever the file changes")
}

// runCheck loads every file, reporting each outcome on w.
func runCheck(w io.Writer, files []string) error {
	failed := 0
	for _, path := range files {
		set, err := loadSet(path)
		if err != nil {
			failed++
			fmt.Fprint(w, formatter.Diagnostic(path, unlabel(err)))
			continue
		}
		reportCheck(w, path, set)
	}
	logger.Debug("checked pattern sets", zap.Int("files", len(files)), zap.Int("failed", failed))
	if failed > 0 {
		return errCheckFailed
	}
	return nil
}

func reportCheck(w io.Writer, path string, set *patternset.Set) {
	fmt.Fprintf(w, "ok: %d patterns in %s\n", set.Len(), path)
}

func runCheckWatch(ctx context.Context, w io.Writer, path string) error {
	_ = runCheck(w, []string{path})

	watcher, err := patternset.NewWatcher(path, logger, func(set *patternset.Set, err error) {
		if err != nil {
			fmt.Fprint(w, formatter.Diagnostic(path, err))
			return
		}
		reportCheck(w, path, set)
	})
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}

	<-ctx.Done()
	logger.Debug("stopped watching", zap.String("path", path))
	return watcher.Stop()
}

// unlabel strips the label added by loadSet, since diagnostics print it
// themselves.
func unlabel(err error) error {
	var le *labeledError
	if errors.As(err, &le) {
		return le.err
	}
	return err
}
