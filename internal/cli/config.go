package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"lectio/internal/config"
)

// validConfigKeys lists all supported configuration keys.
// Keys double as the environment variable names that override them.
var validConfigKeys = []string{
	config.KeyDeepgramAPIKey,
	config.KeyOpenAIAPIKey,
	config.KeyOutputDir,
}

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored as a dotenv file in the platform config
directory (~/.config/lectio on Linux). Every setting can also be
provided through the environment variable of the same name; the file
wins when both are set.

Supported settings:
  DEEPGRAM_API_KEY     API key for the Deepgram provider
  OPENAI_API_KEY       API key for the OpenAI provider
  LECTIO_OUTPUT_DIR    Default directory for output files`,
		Example: `  lectio config set DEEPGRAM_API_KEY dg_live_...
  lectio config set LECTIO_OUTPUT_DIR ~/lectures
  lectio config get LECTIO_OUTPUT_DIR
  lectio config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Output directories are expanded and created if missing. API keys are
stored as given; the config file is written with owner-only permissions.`,
		Example: `  lectio config set DEEPGRAM_API_KEY dg_live_...
  lectio config set LECTIO_OUTPUT_DIR ~/lectures`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(env, args[0], args[1])
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value.

Prints the stored value to stdout, or nothing if not set. Unlike
"config list", secrets are printed unmasked so the value can be piped.`,
		Example: `  lectio config get LECTIO_OUTPUT_DIR`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values.

Shows values from the config file and environment variable overrides.
API keys are masked down to their last four characters.`,
		Example: `  lectio config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env)
		},
	}
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, key, value string) error {
	// Validate key.
	if !isValidConfigKey(key) {
		return fmt.Errorf("unknown config key %q (valid keys: %v)", key, validConfigKeys)
	}

	// Key-specific validation.
	switch key {
	case config.KeyOutputDir:
		// Expand ~ and validate directory.
		expanded := config.ExpandPath(value)
		if err := config.ValidOutputDir(expanded); err != nil {
			return fmt.Errorf("invalid %s: %w", config.KeyOutputDir, err)
		}
		// Store the expanded path for consistency.
		value = expanded
	}

	// Save to config file.
	if err := config.Save(key, value); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, maskIfSecret(key, value))
	return nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(env *Env, key string) error {
	// Validate key.
	if !isValidConfigKey(key) {
		return fmt.Errorf("unknown config key %q (valid keys: %v)", key, validConfigKeys)
	}

	value, err := config.Get(key)
	if err != nil {
		return err
	}

	// Environment variable fallback; keys double as variable names.
	if value == "" {
		value = env.Getenv(key)
	}

	if value != "" {
		fmt.Fprintln(env.Stdout, value)
	}

	return nil
}

// runConfigList handles the "config list" command.
func runConfigList(env *Env) error {
	data, err := config.List()
	if err != nil {
		return err
	}

	display := make(map[string]string, len(data))
	for key, value := range data {
		display[key] = maskIfSecret(key, value)
	}

	// Add environment variable values for completeness.
	for _, key := range validConfigKeys {
		if _, ok := display[key]; ok {
			continue
		}
		if envVal := env.Getenv(key); envVal != "" {
			display[key] = maskIfSecret(key, envVal) + " (from env)"
		}
	}

	if len(display) == 0 {
		fmt.Fprintln(env.Stdout, "No configuration set.")
		fmt.Fprintln(env.Stdout, "\nAvailable settings:")
		for _, key := range validConfigKeys {
			fmt.Fprintf(env.Stdout, "  %s\n", key)
		}
		return nil
	}

	for _, key := range slices.Sorted(maps.Keys(display)) {
		fmt.Fprintf(env.Stdout, "%s=%s\n", key, display[key])
	}

	return nil
}

// isValidConfigKey checks if a key is a valid configuration key.
func isValidConfigKey(key string) bool {
	return slices.Contains(validConfigKeys, key)
}

// maskIfSecret hides all but the last four characters of secret values.
// Non-secret values pass through unchanged.
func maskIfSecret(key, value string) string {
	if !config.IsSecret(key) {
		return value
	}
	if len(value) <= 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}
