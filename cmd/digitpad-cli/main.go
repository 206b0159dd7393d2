package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"digitpad/adapters/predictapi"
	"digitpad/adapters/raster"
	"digitpad/app"
	"digitpad/domain/sketch"
	"digitpad/internal"
	"digitpad/internal/config"
	"digitpad/ports"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "digitpad-cli",
		Short: "digitpad CLI for rendering stroke scripts and querying the model server",
	}

	rootCmd.AddCommand(
		newRenderCmd(),
		newPredictCmd(),
		newHealthCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, *internal.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)), nil
}

func newClient(cfg *config.Config, logger *internal.Logger, url string) (*predictapi.Client, error) {
	if url == "" {
		url = cfg.Predictor.URL
	}
	return predictapi.NewClient(predictapi.Config{URL: url, Timeout: cfg.Predictor.Timeout}, logger)
}

func newRenderCmd() *cobra.Command {
	var output string
	var size uint

	cmd := &cobra.Command{
		Use:   "render [script.yaml]",
		Short: "Replay a stroke script and write the drawing as PNG",
		Long: `Replay a YAML stroke script on a fresh sketch pad and write the result.

Example: digitpad-cli render seven.yaml -o seven.png --size 28`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			script, err := sketch.LoadScript(args[0])
			if err != nil {
				return err
			}
			data, err := raster.RenderScript(script, cfg.Canvas.Width, cfg.Canvas.Height, size)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", output, len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "sketch.png", "Output PNG path")
	cmd.Flags().UintVar(&size, "size", 0, "Downsample to a size x size square (0 keeps canvas size)")

	return cmd
}

func newPredictCmd() *cobra.Command {
	var url string
	var batch int64
	var size uint

	cmd := &cobra.Command{
		Use:   "predict [script.yaml...]",
		Short: "Render stroke scripts and send them to the model server",
		Long: `Render each script and predict them concurrently, printing one result
table per script.

Example: digitpad-cli predict one.yaml seven.yaml --batch 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("batch") {
				batch = cfg.Predictor.BatchSize
			}
			if !cmd.Flags().Changed("size") {
				size = cfg.Canvas.ModelInputSize
			}
			client, err := newClient(cfg, logger, url)
			if err != nil {
				return err
			}

			inputs := make([]app.BatchInput, 0, len(args))
			for _, path := range args {
				script, err := sketch.LoadScript(path)
				if err != nil {
					return err
				}
				data, err := raster.RenderScript(script, cfg.Canvas.Width, cfg.Canvas.Height, size)
				if err != nil {
					return err
				}
				inputs = append(inputs, app.BatchInput{Name: script.Name, Image: data})
			}

			service := app.NewPredictorService(client, logger)
			outcomes, err := service.PredictBatch(cmd.Context(), inputs, batch)
			if err != nil {
				return err
			}

			failed := 0
			for _, out := range outcomes {
				if out.Err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%s: error: %v\n\n", out.Name, out.Err)
					continue
				}
				printOutcome(cmd.OutOrStdout(), out)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d predictions failed", failed, len(outcomes))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Predict endpoint (defaults to PREDICT_URL)")
	cmd.Flags().Int64Var(&batch, "batch", 4, "Maximum concurrent requests")
	cmd.Flags().UintVar(&size, "size", 0, "Model input size (defaults to MODEL_INPUT_SIZE)")

	return cmd
}

func printOutcome(out io.Writer, outcome app.BatchOutcome) {
	fmt.Fprintf(out, "%s\n", outcome.Name)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  DIGIT\tPROBABILITY")
	for _, row := range outcome.Table.Rows() {
		fmt.Fprintf(w, "  %s\t%s\n", row.Index, row.Value)
	}
	w.Flush()

	if label, score, ok := outcome.Result.Top(); ok {
		summary := outcome.Result.Summary()
		fmt.Fprintf(out, "  top: %d (%.4f), sum %.4f over %d scores\n\n", label, score, summary.Sum, summary.Count)
	} else {
		fmt.Fprintln(out, "  (empty result)")
		fmt.Fprintln(out)
	}
}

func newHealthCmd() *cobra.Command {
	var url string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the model server health and current model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newClient(cfg, logger, url)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			info := ports.ModelInfo{}
			if err := client.Health(ctx); err != nil {
				return fmt.Errorf("model server unhealthy: %w", err)
			}
			info.Healthy = true
			if info.Tag, err = client.CurrentModel(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "health: ok\nmodel: %s\n", info.Tag)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Predict endpoint (defaults to PREDICT_URL)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Overall timeout")

	return cmd
}
