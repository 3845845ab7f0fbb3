package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vinhhn3/docker-demo/internal/config"
	"github.com/vinhhn3/docker-demo/internal/db/mongodb"
	"github.com/vinhhn3/docker-demo/internal/models"
)

type initOptions struct {
	*serveOptions
	check bool
}

func newInitCmd(serve *serveOptions) *cobra.Command {
	opts := &initOptions{serveOptions: serve}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file",
		Long: `Interactive wizard that writes a YAML config file with the MongoDB URI,
listen port and log level. Environment variables still override the file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.check, "check", false, "try the MongoDB connection before saving")
	return cmd
}

func runInit(cmd *cobra.Command, opts *initOptions) error {
	out := cmd.OutOrStdout()
	p := newPrompter(cmd.InOrStdin(), out)

	fmt.Fprintln(out, FormatHeader("docker-demo setup"))
	fmt.Fprintln(out)

	configPath := opts.configFile
	if configPath == "" {
		configPath = config.GetConfigPath()
	}

	if config.Exists(configPath) {
		fmt.Fprintf(out, "Configuration file already exists at: %s\n", configPath)
		confirmed, err := p.promptYesNo("Do you want to overwrite it? (y/N): ")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	uri, err := p.promptOptional(fmt.Sprintf("MongoDB URI [%s]: ", cfg.MongoURI), cfg.MongoURI, validateMongoURI)
	if err != nil {
		return err
	}
	cfg.MongoURI = uri

	port, err := p.promptOptional(fmt.Sprintf("Port [%d]: ", cfg.Port), strconv.Itoa(cfg.Port), validatePort)
	if err != nil {
		return err
	}
	cfg.Port, _ = strconv.Atoi(port)

	level, err := p.promptOptional(fmt.Sprintf("Log level [%s]: ", cfg.LogLevel), cfg.LogLevel, validateLogLevel)
	if err != nil {
		return err
	}
	cfg.LogLevel = level

	if opts.check {
		checkConnection(cmd.Context(), cmd, cfg)
	}

	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, FormatSuccess("Configuration saved to: "+configPath))
	fmt.Fprintln(out, FormatLabelValue("URI:", mongodb.RedactURI(cfg.MongoURI)))
	fmt.Fprintln(out, FormatLabelValue("Port:", strconv.Itoa(cfg.Port)))
	fmt.Fprintln(out, FormatLabelValue("Log level:", cfg.LogLevel))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Start the server with: %s serve --config %s\n", AppName, configPath)

	return nil
}

// checkConnection reports whether MongoDB answers. The server never requires
// it, so a failure is only a warning.
func checkConnection(ctx context.Context, cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Testing database connection...")

	database, err := mongodb.New(&models.Config{Provider: "mongodb", URI: cfg.MongoURI})
	if err != nil {
		fmt.Fprintln(out, FormatWarning("Could not create database client: "+err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := database.Connect(ctx); err != nil {
		fmt.Fprintln(out, FormatWarning("Database unreachable, saving anyway: "+err.Error()))
		return
	}
	defer database.Disconnect(context.Background())

	fmt.Fprintln(out, FormatSuccess("Database connection successful!"))
}
