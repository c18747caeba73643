package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnolang/pathpat"
)

var (
	expandDialect string
	behavior      string
)

var expandCmd = &cobra.Command{
	Use:   "expand [pattern] key=value...",
	Short: "Build a string from a pattern and values",
	Long: `Substitutes values for the captures of a pattern. With a pattern set, the
first pattern accepting the keys is used.

Example) pathpat expand '/:file(.:ext)?' file=pony ext=png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source := ""
		if setFile == "" {
			if len(args) == 0 {
				return errors.New("please provide a pattern or a pattern set file")
			}
			source, args = args[0], args[1:]
		}
		b, err := pathpat.ParseBehavior(behavior)
		if err != nil {
			return err
		}
		values, err := parseValues(args)
		if err != nil {
			return err
		}
		patterns, err := loadPatterns(source, expandDialect)
		if err != nil {
			return err
		}
		return runExpand(cmd.OutOrStdout(), patterns.Expander(b), values)
	},
}

func init() {
	expandCmd.Flags().StringVarP(&expandDialect, "dialect", "d", "", "Pattern dialect")
	expandCmd.Flags().StringVar(&behavior, "behavior", pathpat.Raise.String(), "What to do with unused keys: raise, ignore or append")
}

func runExpand(w io.Writer, e *pathpat.Expander, values map[string]string) error {
	s, err := e.Expand(values)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, s)
	return nil
}

// parseValues turns key=value arguments into a map.
func parseValues(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid value %q, want key=value", arg)
		}
		if _, dup := values[k]; dup {
			return nil, fmt.Errorf("key %q given twice", k)
		}
		values[k] = v
	}
	return values, nil
}
