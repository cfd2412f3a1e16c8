package app

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/webcreds/credsync"
)

// Config holds the application configuration loaded from environment
// variables and .env files. The writer credentials are secrets and are
// never logged.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Destination server
	Server     string
	Bucket     string
	WriterUser string
	WriterPass string

	// Collection and feed overrides; empty values fall back to the
	// standard endpoints.
	RealmsCollection string
	RulesCollection  string
	RealmsFeedURL    string
	RulesFeedURL     string

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from all sources in order of
// precedence:
//  1. Command-line flags (handled by cobra, applied later)
//  2. Environment variables
//  3. .env files
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	bindSecrets()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no_color"),

		Server:     viper.GetString("kinto_server"),
		Bucket:     viper.GetString("kinto_bucket"),
		WriterUser: viper.GetString("kinto_writer_user"),
		WriterPass: viper.GetString("kinto_writer_pass"),

		RealmsCollection: viper.GetString("realms_collection"),
		RulesCollection:  viper.GetString("rules_collection"),
		RealmsFeedURL:    viper.GetString("realms_feed_url"),
		RulesFeedURL:     viper.GetString("rules_feed_url"),

		LogLevel:  viper.GetString("log_level"),
		LogFormat: viper.GetString("log_format"),
	}

	return config, nil
}

// RunnerConfig maps the application configuration into the runner's
// explicit configuration struct.
func (c *Config) RunnerConfig(dryRun bool) credsync.Config {
	return credsync.Config{
		Server:           c.Server,
		Bucket:           c.Bucket,
		WriterUsername:   c.WriterUser,
		WriterPassword:   c.WriterPass,
		RealmsCollection: c.RealmsCollection,
		RulesCollection:  c.RulesCollection,
		RealmsFeedURL:    c.RealmsFeedURL,
		RulesFeedURL:     c.RulesFeedURL,
		DryRun:           dryRun,
	}
}

// UpdateFromFlags updates config values from parsed command flags so
// flag values take precedence over env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// bindSecrets explicitly binds the secret environment variables to
// Viper so they resolve even when absent from any config file.
func bindSecrets() {
	secrets := []string{
		"KINTO_SERVER",
		"KINTO_BUCKET",
		"KINTO_WRITER_USER",
		"KINTO_WRITER_PASS",
	}

	for _, key := range secrets {
		_ = viper.BindEnv(strings.ToLower(key), key)
	}
}
