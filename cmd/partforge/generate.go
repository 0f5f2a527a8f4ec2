package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"partforge/pkg/generator"
	"partforge/pkg/intent"
)

func newGenerateCmd() *cobra.Command {
	var (
		inPath string
		engine string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Validate a JSON part intent and build it once",
		Long: `Reads a part intent in the API's JSON format from a file (or stdin
with "-"), runs the manufacturability rules, builds the part with the
selected engine, and prints the artifact path.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			part, err := readIntent(inPath)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = cfg.Output.Dir
			}

			reg := newRegistry(cfg, log)
			gen := generator.New(reg, generator.Options{
				OutputDir:     outDir,
				Limits:        cfg.RuleLimits(),
				Workers:       cfg.Generation.Workers,
				BuildTimeout:  cfg.Generation.BuildBudget(),
				DefaultEngine: cfg.Generation.DefaultEngine,
				Logger:        log,
			})

			path, err := gen.Generate(cmd.Context(), part, engine)
			if err != nil {
				ge := generator.AsError(err)
				fmt.Fprintf(cmd.ErrOrStderr(), "generation failed (%s):\n", ge.Kind)
				if len(ge.Violations) > 0 {
					for _, v := range ge.Violations {
						fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", v.Message)
					}
				} else {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", ge.Message)
				}
				return fmt.Errorf("%s", ge.Kind)
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&inPath, "in", "-", "part intent JSON file, or - for stdin")
	cmd.Flags().StringVar(&engine, "engine", "", "engine key (default from config)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "output directory (default from config)")
	return cmd
}

// readIntent decodes a part intent from a file or stdin.
func readIntent(path string) (intent.Part, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return intent.Part{}, err
		}
		defer f.Close()
		r = f
	}

	var part intent.Part
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&part); err != nil {
		return intent.Part{}, fmt.Errorf("parsing intent: %w", err)
	}
	return part, nil
}
