package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nzebi/dico/pkg/lexicon"
	"github.com/nzebi/dico/pkg/overlay"
	"github.com/nzebi/dico/pkg/source"
)

type BulkConfig struct {
	// BaseURL and URL locate the bulk document over http, Path on disk.
	BaseURL string
	URL     string
	Path    string
	// Timeout bounds every source of the loader.
	Timeout time.Duration
	// Watch invalidates the cache when the file at Path changes.
	Watch bool
}

type RemoteConfig struct {
	// Kind is supabase, sqlite or none.
	Kind  string
	URL   string
	Key   string
	Table string
	DSN   string
	// Mode is off, through or behind.
	Mode string
}

type Config struct {
	ZapConfig string
	Host      string
	// Policy is merge or first.
	Policy string
	// ShutdownTimeout bounds the graceful stop on a signal.
	ShutdownTimeout time.Duration

	Bulk       BulkConfig
	Overlay    overlay.Config
	Remote     RemoteConfig
	Categories struct {
		Path string
	}
	Page struct {
		Limit int
	}

	// file is the config file that was read, empty when none was found.
	file string
}

func (c *Config) ZapConf() (*zap.Config, error) {
	if c.ZapConfig == "" {
		defaultConf := zap.NewDevelopmentConfig()
		return &defaultConf, nil
	}
	var zapConf zap.Config
	if err := json.Unmarshal([]byte(c.ZapConfig), &zapConf); err != nil {
		return nil, fmt.Errorf("invalid zap config: %w", err)
	}
	return &zapConf, nil
}

// Validate rejects settings that would only fail once a request comes in.
func (c *Config) Validate() error {
	if _, err := source.ParsePolicy(c.Policy); err != nil {
		return err
	}
	if _, err := lexicon.ParseRemoteMode(c.Remote.Mode); err != nil {
		return err
	}
	switch strings.ToLower(c.Remote.Kind) {
	case "", "none":
	case "supabase":
		if c.Remote.URL == "" || c.Remote.Key == "" {
			return fmt.Errorf("remote kind supabase needs remote.url and remote.key")
		}
	case "sqlite":
		if c.Remote.DSN == "" {
			return fmt.Errorf("remote kind sqlite needs remote.dsn")
		}
	default:
		return fmt.Errorf("unknown remote kind %q", c.Remote.Kind)
	}
	if c.Bulk.Watch && c.Bulk.Path == "" {
		return fmt.Errorf("bulk.watch needs bulk.path")
	}
	if c.Page.Limit <= 0 {
		return fmt.Errorf("page.limit must be positive, got %d", c.Page.Limit)
	}
	return nil
}

// Fields describes the resolved config for the startup log. Secrets are left out.
func (c *Config) Fields() []zap.Field {
	return []zap.Field{
		zap.String("file", c.file),
		zap.String("host", c.Host),
		zap.String("policy", c.Policy),
		zap.String("bulk", firstNonEmpty(c.Bulk.Path, c.Bulk.URL)),
		zap.Bool("watch", c.Bulk.Watch),
		zap.Bool("overlayInMemory", c.Overlay.InMemory),
		zap.String("overlayPath", c.Overlay.Path),
		zap.String("remote", c.Remote.Kind),
		zap.String("remoteMode", c.Remote.Mode),
		zap.Int("pageLimit", c.Page.Limit),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// loadConfig reads flags from args, then the config file, then NZEBI_*
// environment variables.
func loadConfig(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("nzebid", pflag.ContinueOnError)
	flags.StringP("config", "c", "config.yaml", "path to local config")
	flags.String("host", "localhost:8080", "listen address")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}
	v.SetEnvPrefix("NZEBI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("policy", "merge")
	v.SetDefault("shutdowntimeout", "10s")
	v.SetDefault("bulk.timeout", "10s")
	v.SetDefault("overlay.inmemory", false)
	v.SetDefault("overlay.path", "nzebi-overlay")
	v.SetDefault("remote.kind", "none")
	v.SetDefault("remote.mode", "off")
	v.SetDefault("page.limit", 50)
	for _, key := range []string{
		"zapconfig",
		"bulk.baseurl", "bulk.url", "bulk.path", "bulk.watch",
		"remote.url", "remote.key", "remote.table", "remote.dsn",
		"categories.path",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var file string
	configPath := v.GetString("config")
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err == nil {
		file = configPath
	} else if flags.Changed("config") {
		return nil, fmt.Errorf("can not read config %q: %w", configPath, err)
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("error while unmarshaling config: %w", err)
	}
	conf.file = file
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &conf, nil
}
