// Package cli builds the storefront command line: serve, version,
// healthcheck and config commands plus caller-supplied ones.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nimburion/storefront/pkg/config"
	"github.com/nimburion/storefront/pkg/configschema"
	"github.com/nimburion/storefront/pkg/observability/logger"
	"github.com/nimburion/storefront/pkg/version"
)

// ConfigLoader loads the effective configuration and a logger for it,
// honouring the persistent flags of the root command.
type ConfigLoader func() (*config.Config, logger.Logger, error)

// ServiceCommandOptions defines callbacks for service-specific logic.
type ServiceCommandOptions struct {
	Name        string
	Description string
	ConfigPath  string
	EnvPrefix   string

	// Required: server startup logic.
	RunServer func(ctx context.Context, cfg *config.Config, log logger.Logger) error

	// Optional: dependency checks for the healthcheck command.
	CheckDependencies func(ctx context.Context, cfg *config.Config, log logger.Logger) error

	// Optional: additional commands sharing the root flags.
	CustomCommands func(load ConfigLoader) []*cobra.Command
}

// NewServiceCommand creates the root command. Running it without a
// subcommand is the same as serve.
func NewServiceCommand(opts ServiceCommandOptions) *cobra.Command {
	if opts.EnvPrefix == "" {
		opts.EnvPrefix = config.DefaultEnvPrefix
	}

	rootCmd := &cobra.Command{
		Use:           opts.Name,
		Short:         opts.Description,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var cfgPath string
	var serviceNameOverride string
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config-file", "c", opts.ConfigPath, "config file path")
	rootCmd.PersistentFlags().StringVar(&serviceNameOverride, "service-name", "", "service name override")

	loadConfig := func() (*config.Config, logger.Logger, error) {
		return LoadConfigAndLogger(cfgPath, opts.EnvPrefix, opts.Name, serviceNameOverride)
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Current(resolveServiceNameValue("", opts.Name, serviceNameOverride))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Service:    %s\n", info.Service)
			fmt.Fprintf(out, "Version:    %s\n", info.Version)
			fmt.Fprintf(out, "Commit:     %s\n", info.Commit)
			fmt.Fprintf(out, "Build Time: %s\n", info.BuildTime)
			fmt.Fprintf(out, "Go:         %s\n", info.GoVersion)
		},
	})

	if opts.RunServer != nil {
		serveCmd := &cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP servers",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, log, err := loadConfig()
				if err != nil {
					return err
				}
				return opts.RunServer(cmd.Context(), cfg, log)
			},
		}
		rootCmd.AddCommand(serveCmd)
		rootCmd.RunE = serveCmd.RunE
	}

	if opts.CheckDependencies != nil {
		rootCmd.AddCommand(&cobra.Command{
			Use:   "healthcheck",
			Short: "Check connectivity to the configured dependencies",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, log, err := loadConfig()
				if err != nil {
					return err
				}
				if err := opts.CheckDependencies(cmd.Context(), cfg, log); err != nil {
					return fmt.Errorf("healthcheck failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			},
		})
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadEffectiveConfig(cfgPath, opts.EnvPrefix, opts.Name, serviceNameOverride); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "configuration is valid")
			return nil
		},
	})

	var showSecrets bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadEffectiveConfig(cfgPath, opts.EnvPrefix, opts.Name, serviceNameOverride)
			if err != nil {
				return err
			}
			if !showSecrets {
				cfg = cfg.Redacted()
			}
			formatted, err := formatConfig(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatted)
			return nil
		},
	}
	showCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show credentials embedded in URLs")
	configCmd.AddCommand(showCmd)

	configCmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := configschema.BuildSchema()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(schema)
		},
	})
	rootCmd.AddCommand(configCmd)

	if opts.CustomCommands != nil {
		for _, cmd := range opts.CustomCommands(loadConfig) {
			rootCmd.AddCommand(cmd)
		}
	}

	return rootCmd
}

// LoadConfigAndLogger loads and validates the configuration, then builds the zap logger it describes.
func LoadConfigAndLogger(cfgPath, envPrefix, defaultServiceName, serviceNameOverride string) (*config.Config, logger.Logger, error) {
	cfg, err := loadEffectiveConfig(cfgPath, envPrefix, defaultServiceName, serviceNameOverride)
	if err != nil {
		return nil, nil, err
	}

	level, err := logger.ParseLogLevel(cfg.Observability.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	format, err := logger.ParseLogFormat(cfg.Observability.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.NewZapLogger(logger.Config{Level: level, Format: format})
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	if level == logger.DebugLevel {
		log.Debug("effective configuration", "config", fmt.Sprintf("%+v", *cfg.Redacted()))
	}
	return cfg, log, nil
}

func loadEffectiveConfig(cfgPath, envPrefix, defaultServiceName, serviceNameOverride string) (*config.Config, error) {
	cfg, err := config.NewViperLoader(cfgPath, envPrefix).Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Service.Name = resolveServiceNameValue(cfg.Service.Name, defaultServiceName, serviceNameOverride)
	return cfg, nil
}

func formatConfig(cfg *config.Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(data), nil
}

// Execute runs the command and exits with status 1 on error.
func Execute(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveServiceNameValue(currentConfigName, defaultServiceName, serviceNameOverride string) string {
	if override := strings.TrimSpace(serviceNameOverride); override != "" {
		return override
	}
	if configured := strings.TrimSpace(currentConfigName); configured != "" {
		return configured
	}
	if fallback := strings.TrimSpace(defaultServiceName); fallback != "" {
		return fallback
	}
	return "storefront"
}
