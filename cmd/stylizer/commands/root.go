package commands

import (
	"fmt"
	"os"

	"neural-stylizer/internal/config"

	"github.com/spf13/cobra"
)

var (
	configPath   string
	modelURL     string
	modelFile    string
	refreshModel bool
	logLevel     string
)

func Execute() error {
	root := &cobra.Command{
		Use:           "stylizer",
		Short:         "Arbitrary neural style transfer for your images",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "YAML config file")
	root.Flags().StringVar(&modelURL, "model-url", "", "URL of the ONNX style transfer model")
	root.Flags().StringVar(&modelFile, "model-file", "", "local model file (skips download)")
	root.Flags().BoolVar(&refreshModel, "refresh-model", false, "download the model again even if it is cached")
	root.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn, error or off")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "stylizer:", err)
		return err
	}
	return nil
}

// resolveConfig layers defaults, the config file, the environment and the
// flags that were set explicitly, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)

	flags := cmd.Flags()
	if flags.Changed("model-url") {
		cfg.Model.URL = modelURL
	}
	if flags.Changed("model-file") {
		cfg.Model.File = modelFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	cfg.Model.Refresh = refreshModel

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
