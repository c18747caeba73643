package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/pathpat"
	"github.com/gnolang/pathpat/patternset"
)

const defaultSetFile = "pathpat.yaml"

// initCmd: pathpat init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a sample pattern set file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := setFile
		if path == "" {
			path = defaultSetFile
		}
		if err := initPatternSetFile(path); err != nil {
			logger.Error("Error initializing pattern set file", zap.Error(err))
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pattern set file created/updated: %s\n", path)
		return nil
	},
}

func initPatternSetFile(path string) error {
	greedy := true
	config := patternset.Config{
		Defaults: patternset.Defaults{
			Dialect: pathpat.DefaultDialect,
			Options: &patternset.OptionsSpec{Greedy: &greedy},
		},
		Patterns: []patternset.PatternSpec{
			{
				Name:    "user",
				Pattern: "/users/:id",
				Options: &patternset.OptionsSpec{
					Capture: &patternset.ConstraintSpec{Class: "digit"},
				},
			},
			{Name: "file", Pattern: "/files/*"},
			{Name: "search", Pattern: "/search{?q,page}", Dialect: "template"},
		},
	}
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(d)
	return err
}
