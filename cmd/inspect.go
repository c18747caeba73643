package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gnolang/pathpat"
	"github.com/gnolang/pathpat/formatter"
	"github.com/gnolang/pathpat/patternset"
)

var inspectDialect string

var inspectCmd = &cobra.Command{
	Use:   "inspect [patterns...]",
	Short: "Show how patterns compile",
	Long: `Prints the capture names, regular expression, expansions and syntax tree of
each pattern, or of every pattern in the set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if setFile != "" {
			set, err := loadSet(setFile)
			if err != nil {
				return err
			}
			return runInspectSet(cmd.OutOrStdout(), set)
		}
		if len(args) == 0 {
			return errors.New("please provide patterns or a pattern set file")
		}
		for i, source := range args {
			patterns, err := loadPatterns(source, inspectDialect)
			if err != nil {
				return err
			}
			if i > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.Inspect(patterns.single))
		}
		return nil
	},
}

var dialectsCmd = &cobra.Command{
	Use:   "dialects",
	Short: "List the supported pattern dialects",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range pathpat.Dialects() {
			if name == pathpat.DefaultDialect {
				fmt.Fprintln(cmd.OutOrStdout(), name, "(default)")
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectDialect, "dialect", "d", "", "Pattern dialect")
}

func runInspectSet(w io.Writer, set *patternset.Set) error {
	for i, e := range set.Entries() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "# %s\n", e.Name)
		fmt.Fprint(w, formatter.Inspect(e.Pattern))
	}
	return nil
}
