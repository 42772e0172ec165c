// Package config manages the persistent tool configuration: a single
// dotenv file (config.env) in the platform configuration directory.
// The file stores API credentials and a default output directory; values
// in the file win over process environment variables, which act as
// fallbacks for one-off overrides and CI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
)

// Keys stored in config.env. Stored under their environment-variable
// names so the same file can be sourced directly by a shell.
const (
	KeyDeepgramAPIKey = "DEEPGRAM_API_KEY"
	KeyOpenAIAPIKey   = "OPENAI_API_KEY"
	KeyOutputDir      = "LECTIO_OUTPUT_DIR"
)

// EnvConfigDir overrides the configuration directory entirely.
// Primarily a test hook, also useful for portable installs.
const EnvConfigDir = "LECTIO_CONFIG_DIR"

const (
	appDirName     = "lectio"
	configFileName = "config.env"
)

// Config holds user configuration loaded from config.env plus
// environment fallbacks.
type Config struct {
	DeepgramAPIKey string
	OpenAIAPIKey   string
	OutputDir      string
}

// dir returns the platform configuration directory:
// $LECTIO_CONFIG_DIR if set, else ~/Library/Application Support/lectio
// (darwin), %APPDATA%\lectio (windows), $XDG_CONFIG_HOME/lectio or
// ~/.config/lectio (everything else).
func dir() (string, error) {
	if override := os.Getenv(EnvConfigDir); override != "" {
		return override, nil
	}

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support", appDirName), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appDirName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(home, "AppData", "Roaming", appDirName), nil
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(home, ".config", appDirName), nil
	}
}

// path returns the full path to config.env.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, configFileName), nil
}

// Load reads config.env and environment variables.
// Precedence per key: file value, then environment fallback.
// Returns an empty Config if the file doesn't exist (not an error).
func Load() (Config, error) {
	var cfg Config

	p, err := path()
	if err != nil {
		return cfg, err
	}

	values, err := godotenv.Read(p)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		values = map[string]string{}
	}

	lookup := func(key string) string {
		if v := values[key]; v != "" {
			return v
		}
		return os.Getenv(key)
	}

	cfg.DeepgramAPIKey = lookup(KeyDeepgramAPIKey)
	cfg.OpenAIAPIKey = lookup(KeyOpenAIAPIKey)
	cfg.OutputDir = lookup(KeyOutputDir)

	return cfg, nil
}

// Save writes a single key=value to config.env, creating the directory
// and file as needed. Existing pairs are preserved; the file is written
// 0600 since it holds credentials.
func Save(key, value string) error {
	p, err := path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	existing, err := godotenv.Read(p)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		existing = map[string]string{}
	}

	existing[key] = value

	content, err := godotenv.Marshal(existing)
	if err != nil {
		return fmt.Errorf("cannot encode config: %w", err)
	}
	if err := os.WriteFile(p, []byte(content+"\n"), 0o600); err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	return nil
}

// Get reads a single value from config.env.
// Returns empty string if the key or the file doesn't exist.
func Get(key string) (string, error) {
	p, err := path()
	if err != nil {
		return "", err
	}

	values, err := godotenv.Read(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	return values[key], nil
}

// List returns all stored values as a map (no environment fallbacks).
func List() (map[string]string, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}

	values, err := godotenv.Read(p)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	return values, nil
}

// IsSecret reports whether a config key holds a credential and must be
// masked in any listing output.
func IsSecret(key string) bool {
	return strings.HasSuffix(key, "_API_KEY")
}

// ResolveOutputPath resolves the final output path using the following precedence:
//  1. If output is absolute, use it as-is
//  2. If output is relative and outputDir is set, join them
//  3. If output is empty, use defaultName in outputDir (or cwd if no outputDir)
//
// outputDir can come from config or flag.
// All paths are cleaned using filepath.Clean to normalize separators.
func ResolveOutputPath(output, outputDir, defaultName string) string {
	if output != "" && filepath.IsAbs(output) {
		return filepath.Clean(output)
	}

	if output != "" {
		if outputDir != "" {
			return filepath.Clean(filepath.Join(outputDir, output))
		}
		return filepath.Clean(output)
	}

	if outputDir != "" {
		return filepath.Clean(filepath.Join(outputDir, defaultName))
	}
	return filepath.Clean(defaultName)
}

// ValidOutputDir checks if a directory path is usable as an output
// directory, creating it when missing. Returns nil if valid.
func ValidOutputDir(d string) error {
	if d == "" {
		return fmt.Errorf("output directory cannot be empty")
	}

	d = ExpandPath(d)

	info, err := os.Stat(d)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(d, 0o755); err != nil {
				return fmt.Errorf("cannot create directory: %w", err)
			}
			return nil
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", d)
	}

	// Probe writability; Stat permissions lie on some filesystems.
	probe := filepath.Join(d, ".lectio-write-test")
	f, err := os.Create(probe) // #nosec G304 -- path is constructed from validated dir
	if err != nil {
		return fmt.Errorf("directory is not writable: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(probe)
		return fmt.Errorf("directory is not writable: %w", err)
	}
	_ = os.Remove(probe)

	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[2:])
	}
	return p
}

// Dir returns the configuration directory path.
func Dir() (string, error) {
	return dir()
}

// Path returns the config.env file path.
func Path() (string, error) {
	return path()
}
