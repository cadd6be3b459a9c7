// Command incant translates natural language into commands from the terminal
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"incant/internal/core/catalog"
	"incant/internal/core/pipeline"
	"incant/internal/platform/logger"
)

func main() {
	_ = godotenv.Load()
	logger.Init(logger.FromEnv())

	root := &cobra.Command{
		Use:           "incant",
		Short:         "Translate natural language into shell, sql, docker and browser commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(translateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func translateCmd() *cobra.Command {
	var (
		catalogPath string
		threshold   float64
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate one utterance and print the resulting command",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := catalog.Load()
			if catalogPath != "" {
				snap, err = catalog.LoadFile(catalogPath)
			}
			if err != nil {
				return err
			}

			l := logger.Get()
			provider := catalog.NewProvider(snap, *l)
			pipe := pipeline.Default(provider, pipeline.Options{Threshold: threshold}, *l)

			res := pipe.Run(cmd.Context(), strings.Join(args, " "))

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Command)
			if !res.Success() {
				// a rejection is an answer, not a failure: exit 0
				fmt.Fprintf(cmd.ErrOrStderr(), "rejected (confidence %.2f)\n", res.Detection.Confidence)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "path to a catalog file (defaults to the embedded catalog)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "override the acceptance threshold (0 keeps the catalog value)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full pipeline result as JSON")
	return cmd
}
