package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oxygene76/univers-client/pkg/analysis"
	"github.com/oxygene76/univers-client/pkg/client"
	"github.com/oxygene76/univers-client/pkg/physics"
	"github.com/oxygene76/univers-client/pkg/utils"
)

const (
	appName = "univers-client"
	version = "v1.0.0"

	// commands annotated with skipSetup run without config, store or logger
	skipSetup = "skip-setup"
)

// cli holds the state shared by every command of one invocation.
type cli struct {
	cfgFile string
	lang    string
	output  string
	verbose bool

	config  *utils.Config
	viper   *viper.Viper
	logger  *zap.Logger
	client  *client.UniversClient
	manager *analysis.Manager
}

func main() {
	if err := execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// execute runs one invocation. The store and logger are released even when
// the command fails, since PersistentPostRun only runs on success.
func execute(args []string, stdout, stderr io.Writer) error {
	c := &cli{}
	defer c.teardown()

	rootCmd := c.rootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.Execute()
}

func (c *cli) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Special and general relativity calculators",
		Long: `univers-client computes time dilation for moving observers and for
observers sitting on or inside massive bodies.

It covers the Lorentz factor, Schwarzschild radii, interior and exterior
gravitational dilation, inversions (which mass or radius gives a target
dilation) and a catalogue of about 150 celestial bodies to compare against.
Results can be served over HTTP with the serve command.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipSetup] != "" {
				return nil
			}
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.teardown()
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.univers/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&c.lang, "lang", "", "output language: fr or en (overrides display.lang)")
	rootCmd.PersistentFlags().StringVarP(&c.output, "output", "o", "", "output format: text or json (overrides display.output)")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		c.initCmd(),
		c.versionCmd(),
		c.gammaCmd(),
		c.velocityCmd(),
		c.seriesCmd(),
		c.bodyCmd(),
		c.profileCmd(),
		c.compareCmd(),
		c.matchCmd(),
		c.solveCmd(),
		c.presetsCmd(),
		c.catalogCmd(),
		c.historyCmd(),
		c.serveCmd(),
	)
	return rootCmd
}

// setup loads the configuration, then builds the logger and the client.
func (c *cli) setup() error {
	config, v, err := utils.LoadConfig(c.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if c.lang != "" {
		config.Display.Lang = string(physics.ParseLang(c.lang))
	}
	if c.output != "" {
		if c.output != "text" && c.output != "json" {
			return utils.ErrInvalidConfig.Wrapf("output %q (use: text, json)", c.output)
		}
		config.Display.Output = c.output
	}
	c.config, c.viper = config, v

	zcfg := zap.NewProductionConfig()
	if c.verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if c.logger, err = zcfg.Build(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if c.client, err = client.New(config, c.logger); err != nil {
		return err
	}
	c.manager = c.client.Analyzer()
	return nil
}

func (c *cli) teardown() {
	if c.client != nil {
		if err := c.client.Close(); err != nil {
			c.logger.Warn("failed to close store", zap.Error(err))
		}
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

func (c *cli) initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a default configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.cfgFile
			if path == "" {
				path = utils.GetConfigPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
			}

			config := utils.DefaultConfig()
			if c.lang != "" {
				config.Display.Lang = string(physics.ParseLang(c.lang))
			}
			written, err := utils.SaveConfig(config, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", written)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, version)
		},
	}
}
