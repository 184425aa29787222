package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/df07/go-bending-light/pkg/preview"
	"github.com/df07/go-bending-light/pkg/scene"
	"github.com/df07/go-bending-light/pkg/tracer"
	"github.com/df07/go-bending-light/web/server"
)

// cli holds state shared by every subcommand
type cli struct {
	prodLogs bool
	logger   *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "bendinglight",
		Short: "Trace laser light through media and prisms",
		Long: `bendinglight propagates a laser beam through a flat interface between two
media or through a set of prisms, and reports the resulting ray segments.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(c.prodLogs)
			if err != nil {
				return err
			}
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	rootCmd.PersistentFlags().BoolVar(&c.prodLogs, "prod-logs", false, "Use JSON production logging")

	rootCmd.AddCommand(c.traceCmd(), c.renderCmd(), c.scenesCmd(), c.serveCmd())
	return rootCmd
}

func newLogger(prod bool) (*zap.Logger, error) {
	if prod {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func (c *cli) traceCmd() *cobra.Command {
	var sceneName string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Run one propagation pass and print the rays",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, result, err := c.trace(sceneName)
			if err != nil {
				return err
			}
			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(result)
			}
			return printResult(cmd.OutOrStdout(), s, result)
		},
	}
	cmd.Flags().StringVar(&sceneName, "scene", "intro", "Built-in scene ID, scene name, or path to a YAML scene")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func (c *cli) renderCmd() *cobra.Command {
	var sceneName, out string
	opts := preview.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Trace a scene and save a PNG preview",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, result, err := c.trace(sceneName)
			if err != nil {
				return err
			}

			if out == "" {
				outputDir := createOutputDir(sceneName)
				if err := os.MkdirAll(outputDir, 0755); err != nil {
					return errors.Wrap(err, "creating output directory")
				}
				timestamp := time.Now().Format("20060102_150405")
				out = filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
			}

			start := time.Now()
			if err := preview.SavePNG(out, s, result, opts); err != nil {
				return err
			}
			c.logger.Info("render saved",
				zap.String("path", out),
				zap.Int("rays", len(result.Rays)),
				zap.Duration("elapsed", time.Since(start)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Render saved as %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&sceneName, "scene", "intro", "Built-in scene ID, scene name, or path to a YAML scene")
	cmd.Flags().StringVar(&out, "out", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	cmd.Flags().IntVar(&opts.Width, "width", opts.Width, "Image width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", opts.Height, "Image height in pixels")
	return cmd
}

func (c *cli) scenesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List built-in and file scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			scenes, err := scene.ListAllScenes(c.logger)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, group := range scenes.Groups {
				fmt.Fprintf(w, "%s\n", group.Name)
				for _, info := range group.Scenes {
					fmt.Fprintf(w, "  %s\t%s\t%s\n", info.ID, info.DisplayName, info.Description)
				}
			}
			return w.Flush()
		},
	}
}

func (c *cli) serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the propagation API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.NewServer(port, c.logger).Start(ctx)
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on")
	return cmd
}

// trace resolves a scene and runs one pass over it
func (c *cli) trace(sceneName string) (*scene.Scene, tracer.Result, error) {
	s, err := scene.Lookup(sceneName)
	if err != nil {
		return nil, tracer.Result{}, err
	}
	result, err := tracer.NewEngine(c.logger).Recompute(s)
	if err != nil {
		return nil, tracer.Result{}, err
	}
	return s, result, nil
}

// printResult writes one line per ray followed by the sensor reading
func printResult(out io.Writer, s *scene.Scene, result tracer.Result) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "mode: %s\n", s.Mode.Name())
	fmt.Fprintln(w, "#\trole\tdepth\tnm\tpower\ttail\ttip")
	for i, ray := range result.Rays {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.0f\t%.4f\t(%.3g, %.3g)\t(%.3g, %.3g)\n",
			i, ray.Role, ray.Depth, ray.WavelengthInVacuumNm, ray.Power,
			ray.Tail.X, ray.Tail.Y, ray.Tip.X, ray.Tip.Y)
	}
	if s.Sensor != nil {
		if result.Reading.Hit {
			fmt.Fprintf(w, "sensor: %.4f\n", result.Reading.Value)
		} else {
			fmt.Fprintln(w, "sensor: no reading")
		}
	}
	return w.Flush()
}

// createOutputDir returns output/<scene> where scene is the built-in ID or the
// file name without its extension
func createOutputDir(sceneName string) string {
	base := filepath.Base(sceneName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "scene"
	}
	return filepath.Join("output", base)
}
