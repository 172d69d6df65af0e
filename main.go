package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/rm-hull/image-resampler/cmd"
	"github.com/rm-hull/image-resampler/internal/config"
	"github.com/rm-hull/image-resampler/internal/resample"
	"github.com/rm-hull/image-resampler/internal/tensor"
	"github.com/spf13/cobra"
)

func main() {
	var err error
	var configPath string
	var cfg *config.Config

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	rootCmd := &cobra.Command{
		Use:  "image-resampler",
		Long: `Separable filter-based image resampler`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err = config.Load(configPath)
			return err
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ./config.yaml or ./config/config.yaml)")

	// filter flags default to the configured filter when not given
	var filterName string
	filterFlag := func(c *cobra.Command) {
		c.Flags().StringVar(&filterName, "filter", "", "Filter: nearest, linear, triangular, cubic, lanczos3, gaussian:<sigma>")
	}
	filter := func(c *cobra.Command) (resample.Filter, error) {
		if c.Flags().Changed("filter") {
			cfg.Resample.Filter = filterName
		}
		return cfg.Resample.ParseFilter()
	}

	var width, height, workers int
	var blur float64
	resizeCmd := &cobra.Command{
		Use:   "resize <in> <out> [--width <px>] [--height <px>] [--filter <name>]",
		Short: "Resample a single image",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			f, err := filter(c)
			if err != nil {
				return err
			}
			if c.Flags().Changed("workers") {
				cfg.Resample.Workers = workers
			}
			return cmd.Resize(cfg, args[0], args[1], width, height, f, blur)
		},
	}
	resizeCmd.Flags().IntVar(&width, "width", 0, "Target width (0 keeps aspect ratio)")
	resizeCmd.Flags().IntVar(&height, "height", 0, "Target height (0 keeps aspect ratio)")
	resizeCmd.Flags().IntVar(&workers, "workers", 0, "Goroutines per resample (0 = GOMAXPROCS)")
	resizeCmd.Flags().Float64Var(&blur, "blur", 0, "Gaussian blur sigma applied before resizing")
	filterFlag(resizeCmd)

	var channels, targetWidth, targetHeight int
	planCmd := &cobra.Command{
		Use:   "plan --width <px> --height <px> --target-width <px> --target-height <px>",
		Short: "Print output shape and scratch requirements as JSON",
		RunE: func(c *cobra.Command, _ []string) error {
			f, err := filter(c)
			if err != nil {
				return err
			}
			shape := tensor.Shape{Height: height, Width: width, Channels: channels}
			return cmd.Plan(os.Stdout, shape, resample.NewParams(targetHeight, targetWidth, f))
		},
	}
	planCmd.Flags().IntVar(&width, "width", 0, "Input width")
	planCmd.Flags().IntVar(&height, "height", 0, "Input height")
	planCmd.Flags().IntVar(&channels, "channels", 4, "Input channels")
	planCmd.Flags().IntVar(&targetWidth, "target-width", 0, "Output width")
	planCmd.Flags().IntVar(&targetHeight, "target-height", 0, "Output height")
	filterFlag(planCmd)

	var delay float64
	compareCmd := &cobra.Command{
		Use:   "compare <in> <out.png> [--width <px>] [--height <px>] [--delay <seconds>]",
		Short: "Write an animated PNG cycling through every filter",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.Compare(cfg, args[0], args[1], width, height, delay)
		},
	}
	compareCmd.Flags().IntVar(&width, "width", 0, "Target width (0 keeps aspect ratio)")
	compareCmd.Flags().IntVar(&height, "height", 0, "Target height (0 keeps aspect ratio)")
	compareCmd.Flags().Float64Var(&delay, "delay", 1.0, "Seconds per frame")

	var inputDir, outputDir, schedule string
	var poolSize int
	batchFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&inputDir, "input", "", "Input directory")
		c.Flags().StringVar(&outputDir, "output", "", "Output directory")
		c.Flags().IntVar(&poolSize, "pool-size", 0, "Number of images processed concurrently")
		c.Flags().IntVar(&width, "width", 0, "Target width (0 keeps aspect ratio)")
		c.Flags().IntVar(&height, "height", 0, "Target height (0 keeps aspect ratio)")
		c.Flags().Float64Var(&blur, "blur", 0, "Gaussian blur sigma applied before resizing")
		filterFlag(c)
	}
	applyBatchFlags := func(c *cobra.Command) error {
		flags := c.Flags()
		if flags.Changed("input") {
			cfg.Batch.InputDir = inputDir
		}
		if flags.Changed("output") {
			cfg.Batch.OutputDir = outputDir
		}
		if flags.Changed("pool-size") {
			cfg.Batch.PoolSize = poolSize
		}
		if flags.Changed("width") {
			cfg.Batch.Width = width
		}
		if flags.Changed("height") {
			cfg.Batch.Height = height
		}
		if flags.Changed("blur") {
			cfg.Batch.BlurSigma = blur
		}
		if flags.Changed("schedule") {
			cfg.Batch.Schedule = schedule
		}
		_, err := filter(c)
		return err
	}

	batchCmd := &cobra.Command{
		Use:   "batch [--input <dir>] [--output <dir>] [--schedule <cron>]",
		Short: "Resample every image in a directory, once or on a schedule",
		RunE: func(c *cobra.Command, _ []string) error {
			if err := applyBatchFlags(c); err != nil {
				return err
			}
			return cmd.Batch(cfg)
		},
	}
	batchFlags(batchCmd)
	batchCmd.Flags().StringVar(&schedule, "schedule", "", "Cron expression; run repeatedly until interrupted")

	watchCmd := &cobra.Command{
		Use:   "watch [--input <dir>] [--output <dir>]",
		Short: "Resample images as they are written into a directory",
		RunE: func(c *cobra.Command, _ []string) error {
			if err := applyBatchFlags(c); err != nil {
				return err
			}
			return cmd.Watch(cfg)
		},
	}
	batchFlags(watchCmd)

	var port int
	var debug bool
	apiServerCmd := &cobra.Command{
		Use:   "api-server [--output <path>] [--port <port>] [--debug]",
		Short: "Start HTTP API server",
		Run: func(c *cobra.Command, _ []string) {
			flags := c.Flags()
			if flags.Changed("output") {
				cfg.Server.OutputDir = outputDir
			}
			if flags.Changed("port") {
				cfg.Server.Port = port
			}
			if flags.Changed("debug") {
				cfg.Server.Debug = debug
			}
			if flags.Changed("schedule") {
				cfg.Batch.Schedule = schedule
			}
			cmd.ApiServer(cfg)
		},
	}

	apiServerCmd.Flags().StringVar(&outputDir, "output", "./data/out", "Path to output folder served under /v1/images")
	apiServerCmd.Flags().IntVar(&port, "port", 8080, "Port to run HTTP server on")
	apiServerCmd.Flags().BoolVar(&debug, "debug", false, "Enable debugging (pprof) - WARNING: do not enable in production")
	apiServerCmd.Flags().StringVar(&schedule, "schedule", "", "Cron expression for a background batch over the configured input directory")

	rootCmd.AddCommand(resizeCmd, planCmd, compareCmd, batchCmd, watchCmd, apiServerCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
