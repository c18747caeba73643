package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/pathpat/formatter"
	"github.com/gnolang/pathpat/patternset"
)

var (
	matchDialect    string
	inputPath       string
	matchJsonOutput bool
	showProgress    bool
	workers         int
)

var matchCmd = &cobra.Command{
	Use:   "match [pattern] [candidates...]",
	Short: "Match candidates against a pattern or a pattern set",
	Long: `Matches every candidate and prints the values each matching pattern extracts.
Exits with status 1 when a candidate matches nothing.

Example) pathpat match '/users/:id' /users/42
Example) pathpat match -f routes.yaml --input paths.txt --progress`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source := ""
		if setFile == "" {
			if len(args) == 0 {
				return errors.New("please provide a pattern or a pattern set file")
			}
			source, args = args[0], args[1:]
		}
		candidates := args
		if inputPath != "" {
			more, err := readCandidates(inputPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			candidates = append(candidates, more...)
		}
		if len(candidates) == 0 {
			return errors.New("please provide candidates to match")
		}

		patterns, err := loadPatterns(source, matchDialect)
		if err != nil {
			return err
		}

		ctx, cancel := withTimeout(cmd.Context())
		defer cancel()
		return runMatch(ctx, cmd.OutOrStdout(), patterns.Set(), candidates, matchOptions{
			json:     matchJsonOutput,
			progress: showProgress,
			workers:  workers,
		})
	},
}

func init() {
	matchCmd.Flags().StringVarP(&matchDialect, "dialect", "d", "", "Pattern dialect")
	matchCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Read candidates from a file, one per line (- for stdin)")
	matchCmd.Flags().BoolVar(&matchJsonOutput, "json", false, "Output matches in JSON format")
	matchCmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar on stderr")
	matchCmd.Flags().IntVar(&workers, "workers", 0, "Number of concurrent matchers (0 for one per CPU)")
}

type matchOptions struct {
	json     bool
	progress bool
	workers  int
}

type candidateMatches struct {
	Candidate string              `json:"candidate"`
	Matches   []patternset.Result `json:"matches"`
}

func runMatch(ctx context.Context, w io.Writer, set *patternset.Set, candidates []string, opts matchOptions) error {
	var progress patternset.Progress
	if opts.progress {
		bar := progressbar.NewOptions(len(candidates),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("matching"),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
		defer func() { _ = bar.Finish() }()
		progress = bar
	}

	results, err := set.MatchAll(ctx, candidates, opts.workers, progress)
	if err != nil {
		return err
	}

	missed := 0
	out := make([]candidateMatches, len(candidates))
	for i, c := range candidates {
		out[i] = candidateMatches{Candidate: c, Matches: results[i]}
		if len(results[i]) == 0 {
			missed++
		}
	}
	logger.Debug("matched candidates",
		zap.Int("candidates", len(candidates)),
		zap.Int("missed", missed))

	if opts.json {
		d, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("marshalling matches: %w", err)
		}
		fmt.Fprintln(w, string(d))
	} else {
		for _, m := range out {
			fmt.Fprint(w, formatter.Matches(m.Candidate, m.Matches))
		}
	}

	if missed > 0 {
		return errNoMatch
	}
	return nil
}

// readCandidates reads non-empty lines from path, or from stdin when path is "-".
func readCandidates(path string, stdin io.Reader) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}
