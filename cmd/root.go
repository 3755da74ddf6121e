// Package cmd provides the entrypoint for the messenger-echo-bot cli.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/isometry/messenger-echo-bot/internal/config"
	"github.com/isometry/messenger-echo-bot/internal/helpers"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defaultConfigFilePath = "config.yaml"

var (
	configFilePath string
	logger         = helpers.NewNoopLogger()
)

type boundEnvVar[T argType] struct {
	Name, Description string
	Env, Short        *string
	Hidden            bool
}

// New returns the root command for the messenger-echo-bot.
func New() *cobra.Command {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	// Configuration loading & defaults
	configFilePath = resolveConfigPath(os.Args[1:])
	bootstrapErr := errors.Join(
		config.LoadFromFile(configFilePath),
		config.SetDefaults(),
	)

	cmd := &cobra.Command{
		Use:          "messenger-echo-bot",
		Short:        "Messenger webhook echo bot",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if bootstrapErr != nil {
				return bootstrapErr
			}
			config.Global.Mode = strings.TrimSpace(config.Global.Mode)
			logger = helpers.NewLogger(os.Stdout, config.Global.Logging.Verbosity, config.Global.Logging.CallerTrace)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch config.Global.Mode {
			case config.ModeService:
				return cmdService().RunE(cmd, args)
			case config.ModeLambda:
				return cmdLambda().RunE(cmd, args)
			default:
				return fmt.Errorf("invalid mode: %s", config.Global.Mode)
			}
		},
	}

	// Root command flags
	cmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", configFilePath, "path to the configuration file")

	// Dynamic flags
	setupDynamicFlags(cmd)

	// Subcommands
	cmd.AddCommand(
		cmdLambda(),
		cmdService(),
	)

	return cmd
}

// resolveConfigPath extracts the --config flag ahead of full flag parsing so the file
// can seed the flag defaults. CONFIG_FILE is honoured when the flag is absent.
func resolveConfigPath(args []string) string {
	path := defaultConfigFilePath
	if env, ok := os.LookupEnv("CONFIG_FILE"); ok && env != "" {
		path = env
	}

	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.StringVarP(&path, "config", "c", path, "")
	_ = fs.Parse(args)
	return path
}

func setupDynamicFlags(cmd *cobra.Command) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(replacer)

	bindEnvMap(cmd, envMapString)
	bindEnvMap(cmd, envMapBool)
	bindEnvMap(cmd, envMapCount)
	bindEnvMap(cmd, envMapStringSlice)
	bindEnvMap(cmd, envMapDuration)
	bindEnvMap(cmd, envMapFloat)
}
