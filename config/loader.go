package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem abstracts the file operations used during loading.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem implements FileSystem on the real filesystem.
type OSFileSystem struct{}

// Exists reports whether path exists.
func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads a .env file into the process environment without
// overriding variables that are already set.
func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

type loaderConfig struct {
	fs          FileSystem
	configFile  string
	envFile     string
	envBindings map[string]string
	defaults    map[string]any
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*loaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *loaderConfig) { lc.fs = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.configFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.envFile = path }
}

// WithEnvBindings maps config keys to environment variable names, e.g.
// "chat.providers.gpt.api_key" → "OPENAI_API_KEY". Bound variables take
// precedence over the config file.
func WithEnvBindings(bindings map[string]string) LoaderOption {
	return func(lc *loaderConfig) {
		if lc.envBindings == nil {
			lc.envBindings = make(map[string]string, len(bindings))
		}
		for k, v := range bindings {
			lc.envBindings[k] = v
		}
	}
}

// WithDefaults registers viper defaults used when neither the file nor the
// environment sets a key.
func WithDefaults(defaults map[string]any) LoaderOption {
	return func(lc *loaderConfig) { lc.defaults = defaults }
}

// LoadConfig loads configuration for a service into cfg.
// Precedence, highest first: bound env vars, automatic env vars (including
// those loaded from .env), config.yml, defaults.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	lc := loaderConfig{fs: OSFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}

	if lc.configFile == "" {
		lc.configFile = findFirst(lc.fs, configSearchPaths(serviceName))
	}
	if lc.envFile == "" {
		lc.envFile = findFirst(lc.fs, envSearchPaths(serviceName))
	}

	v := viper.New()
	for k, val := range lc.defaults {
		v.SetDefault(k, val)
	}

	if lc.configFile != "" && lc.fs.Exists(lc.configFile) {
		v.SetConfigFile(lc.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", lc.configFile, err)
		}
	}

	if lc.envFile != "" && lc.fs.Exists(lc.envFile) {
		if err := lc.fs.LoadEnv(lc.envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", lc.envFile, err)
		}
	}

	v.AutomaticEnv()
	autoBindEnvVars(v)

	for key, env := range lc.envBindings {
		if val, ok := os.LookupEnv(env); ok && val != "" {
			v.Set(key, val)
		}
	}

	if err := v.Unmarshal(cfg, decodeHook()); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

func configSearchPaths(serviceName string) []string {
	return []string{
		fmt.Sprintf("./cmd/%s/config.yml", serviceName),
		fmt.Sprintf("../cmd/%s/config.yml", serviceName),
		fmt.Sprintf("../../cmd/%s/config.yml", serviceName),
		"./config/config.yml",
		"./config.yml",
	}
}

func envSearchPaths(serviceName string) []string {
	var paths []string
	for _, name := range []string{".env." + serviceName, ".env"} {
		for _, dir := range []string{"./cmd/" + serviceName, "../cmd/" + serviceName, ".", "..", "../.."} {
			paths = append(paths, dir+"/"+name)
		}
	}
	return paths
}

func findFirst(fs FileSystem, paths []string) string {
	for _, p := range paths {
		if fs.Exists(p) {
			return p
		}
	}
	return ""
}

// autoBindEnvVars sets every environment variable under each nested key
// shape it could stand for, so SERVER_PORT reaches server.port.
func autoBindEnvVars(v *viper.Viper) {
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || key == "" {
			continue
		}
		for _, variant := range envKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// envKeyVariants expands an UPPER_SNAKE name into candidate keys:
//
//	SERVER_READ_TIMEOUT -> [server_read_timeout, server.read.timeout, server.read_timeout, server_read.timeout]
func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	if len(parts) <= 1 {
		return []string{lower}
	}

	seen := map[string]bool{}
	var variants []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			variants = append(variants, s)
		}
	}

	add(lower)
	add(strings.Join(parts, "."))
	for i := 1; i < len(parts); i++ {
		add(strings.Join(parts[:i], ".") + "." + strings.Join(parts[i:], "_"))
		add(strings.Join(parts[:i], "_") + "." + strings.Join(parts[i:], "."))
	}
	return variants
}
