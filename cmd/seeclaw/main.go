package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/OpenBitX/seeclaw"
	"github.com/OpenBitX/seeclaw/internal/config"
	"github.com/OpenBitX/seeclaw/internal/utils"
	"github.com/OpenBitX/seeclaw/pkg/client"
	"github.com/OpenBitX/seeclaw/pkg/grid"
	"github.com/OpenBitX/seeclaw/pkg/llamacpp"
	"github.com/OpenBitX/seeclaw/pkg/ollama"
	"github.com/OpenBitX/seeclaw/pkg/pipeline"
	"github.com/OpenBitX/seeclaw/pkg/screen"
)

var (
	cfgPath   string
	verbose   bool
	backend   string
	serverURL string
	model     string
	cellSize  int
	debugDir  string
	imagePath string
	dryRun    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "seeclaw",
	Short: "Click on-screen UI elements through a vision model",
	Long: `seeclaw overlays a hexadecimal coordinate grid on a screenshot and asks a
vision model to transcribe the grid label of the element you describe.
The label is decoded, scaled to logical display coordinates and clicked.

One invocation is one capture, one model query and at most one click.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run [goal]",
	Short: "Locate the described UI element and click it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		goal := args[0]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		targeter, err := buildTargeter(cfg)
		if err != nil {
			return err
		}

		res, err := targeter.Click(context.Background(), goal)
		if err != nil {
			return err
		}

		fmt.Printf("clicked %s origin=(%d,%d) action=(%d,%d) in %s\n",
			res.Label, res.Origin.X, res.Origin.Y,
			res.Action.X, res.Action.Y, res.Elapsed.Round(time.Millisecond))
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the vision backend can see a capture",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		targeter, err := buildTargeter(cfg)
		if err != nil {
			return err
		}

		reply, err := targeter.SelfTest(context.Background())
		if err != nil {
			return err
		}

		fmt.Println(reply)
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgPath
		if path == "" {
			path = config.GetConfigPath()
		}

		if utils.FileExists(path) {
			return fmt.Errorf("config already exists at %s", path)
		}

		if err := config.Default().SaveToFile(path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	switch {
	case cfgPath != "":
		cfg, err = config.LoadFromFile(cfgPath)
		if err != nil {
			return nil, err
		}
	case utils.FileExists(config.GetConfigPath()):
		cfg, err = config.LoadFromFile(config.GetConfigPath())
		if err != nil {
			return nil, err
		}
	default:
		cfg = config.Default()
	}

	// Flags override the file
	if backend != "" {
		cfg.Vision.Backend = backend
	}
	if serverURL != "" {
		cfg.Vision.URL = serverURL
	}
	if model != "" {
		cfg.Vision.Model = model
	}
	if cellSize > 0 {
		cfg.Grid.CellSize = cellSize
	}
	if debugDir != "" {
		cfg.Debug.Dir = debugDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildTargeter(cfg *config.Config) (*seeclaw.Targeter, error) {
	var vision client.VisionClient
	var err error

	switch cfg.Vision.Backend {
	case "ollama":
		vision, err = ollama.NewClient(cfg.Vision.URL)
	case "llamacpp":
		vision, err = llamacpp.NewClient(cfg.Vision.URL)
	default:
		err = fmt.Errorf("unknown backend: %s", cfg.Vision.Backend)
	}
	if err != nil {
		return nil, err
	}

	var capturer pipeline.Capturer
	var actor pipeline.Actor

	if imagePath != "" {
		// Replay a saved capture; never clicks.
		fc := screen.NewFileCapturer(imagePath)
		img, err := fc.Capture()
		if err != nil {
			return nil, err
		}
		b := img.Bounds()
		capturer = fc
		actor = &screen.NopActor{Width: b.Dx(), Height: b.Dy()}
	} else {
		controller := screen.NewController(time.Duration(cfg.Input.SettleDelayMs) * time.Millisecond)
		capturer = controller
		actor = controller
		if dryRun {
			w, h := controller.ScreenSize()
			actor = &screen.NopActor{Width: w, Height: h}
		}
	}

	return seeclaw.New(capturer, vision, actor, pipeline.Options{
		Model:        cfg.Vision.Model,
		Grid:         grid.Spec{CellSize: cfg.Grid.CellSize},
		DebugDir:     cfg.Debug.Dir,
		DebugFormat:  cfg.Debug.Format,
		DebugQuality: cfg.Debug.Quality,
		Logger:       logger,
	})
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "vision backend: ollama or llamacpp")
	rootCmd.PersistentFlags().StringVar(&serverURL, "url", "", "vision server URL")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "vision model name")
	rootCmd.PersistentFlags().IntVar(&cellSize, "cell-size", 0, "grid cell size in physical pixels")
	rootCmd.PersistentFlags().StringVar(&debugDir, "debug-dir", "", "directory for debug artifacts")

	runCmd.Flags().StringVar(&imagePath, "image", "", "target a saved screenshot instead of the live display (implies no click)")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "resolve the target but do not click")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
