package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/vinhhn3/docker-demo/internal/bootstrap"
	"github.com/vinhhn3/docker-demo/internal/config"
	"github.com/vinhhn3/docker-demo/internal/db/mongodb"
	"github.com/vinhhn3/docker-demo/internal/logger"
	"github.com/vinhhn3/docker-demo/internal/models"
)

// AppName identifies the service to MongoDB and on the command line
const AppName = "docker-demo"

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "dev"

type serveOptions struct {
	configFile string
	port       int
}

// NewRootCmd builds the command tree. Running the root command serves.
func NewRootCmd() *cobra.Command {
	opts := &serveOptions{}

	rootCmd := &cobra.Command{
		Use:   AppName,
		Short: "Hello World HTTP server backed by MongoDB",
		Long: `Starts an HTTP server answering GET / with "Hello, World!".

A MongoDB connection to MONGO_URI is attempted in the background; its
failure is logged and never stops the server. PORT selects the listen port.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "optional YAML config file, overridden by environment variables")
	addPortFlag(rootCmd, opts)

	// Disable completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newInitCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

func newServeCmd(opts *serveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	addPortFlag(cmd, opts)
	return cmd
}

func addPortFlag(cmd *cobra.Command, opts *serveOptions) {
	cmd.Flags().IntVarP(&opts.port, "port", "p", config.DefaultPort, "port to listen on (overrides PORT)")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", AppName, Version)
		},
	}
}

// loadServeConfig resolves the config the server starts with.
func loadServeConfig(cmd *cobra.Command, opts *serveOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
		cfg.Port = opts.port
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cfg, err := loadServeConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger.Init(logger.ParseLogLevel(cfg.LogLevel), cmd.OutOrStdout())
	defer logger.Sync()

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	database, err := mongodb.New(&models.Config{
		Provider: "mongodb",
		URI:      cfg.MongoURI,
		Options:  map[string]string{"app_name": AppName},
	})
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	app := bootstrap.New(cfg, database, logger.GetLogger())
	return app.Start(cmd.Context())
}
