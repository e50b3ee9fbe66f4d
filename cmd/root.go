package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/lynxhire/internal/engine"
	"github.com/spigell/lynxhire/internal/lexicon"
	"github.com/spigell/lynxhire/internal/logger"
	"github.com/spigell/lynxhire/internal/screening"
	"github.com/spigell/lynxhire/internal/secrets"
	"github.com/spigell/lynxhire/internal/server"
	"github.com/spigell/lynxhire/internal/session"
)

const (
	app       = "lynxhire"
	envPrefix = "LYNXHIRE"
)

type Config struct {
	Engine    EngineConfig     `mapstructure:"engine"`
	Lexicon   map[string]any   `mapstructure:"lexicon"`
	Session   SessionConfig    `mapstructure:"session"`
	Shortlist screening.Config `mapstructure:"shortlist"`
	Rank      RankConfig       `mapstructure:"rank"`
	Server    server.Config    `mapstructure:"server"`
}

type EngineConfig struct {
	MaxKeywords int    `mapstructure:"max-keywords"`
	LexiconFile string `mapstructure:"lexicon-file"`
}

type SessionConfig struct {
	File  string      `mapstructure:"file"`
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	DB           int           `mapstructure:"db"`
	Key          string        `mapstructure:"key"`
	Password     string        `mapstructure:"password"`
	PasswordFile string        `mapstructure:"password-file"`
	TTL          time.Duration `mapstructure:"ttl"`
}

type RankConfig struct {
	Workers int `mapstructure:"workers"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "lynxhire scores candidates against a job description with a deterministic text-analytics engine",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is lynxhire.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.max-keywords", engine.DefaultMaxKeywords)
	v.SetDefault("engine.lexicon-file", "")
	v.SetDefault("session.file", "lynxhire-session.yaml")
	v.SetDefault("session.redis.addr", "")
	v.SetDefault("session.redis.db", 0)
	v.SetDefault("session.redis.key", "lynxhire:session")
	v.SetDefault("session.redis.password", "")
	v.SetDefault("session.redis.password-file", "")
	v.SetDefault("session.redis.ttl", time.Duration(0))
	v.SetDefault("shortlist.minimum-fit-score", 55)
	v.SetDefault("shortlist.minimum-geo-match", 0)
	v.SetDefault("shortlist.exclude-tags", []string{session.TagNoGo})
	v.SetDefault("shortlist.exclude-risky", false)
	v.SetDefault("shortlist.exclude-stale", true)
	v.SetDefault("rank.workers", 4)
	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.max-request-bytes", 1<<20)
	v.SetDefault("server.rate-limit.enabled", true)
	v.SetDefault("server.rate-limit.requests-per-minute", 120)
	v.SetDefault("server.rate-limit.burst", 20)
}

func initConfig() {
	// A missing .env is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless it was given explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}
	if config == nil {
		return nil, errors.New("config is empty")
	}

	return config, nil
}

// bootstrap builds the logger and config every command starts from.
func bootstrap() (*zap.Logger, *Config) {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	l.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return l, config
}

func newEngine(config *Config) (*engine.Engine, error) {
	var overrides *lexicon.Source
	if len(config.Lexicon) > 0 {
		var err error
		overrides, err = lexicon.DecodeOverrides(config.Lexicon)
		if err != nil {
			return nil, fmt.Errorf("decoding lexicon overrides: %w", err)
		}
	}

	lex := lexicon.Default()
	if config.Engine.LexiconFile != "" || overrides != nil {
		var err error
		lex, err = lexicon.Load(config.Engine.LexiconFile, overrides)
		if err != nil {
			return nil, fmt.Errorf("loading lexicon: %w", err)
		}
	}

	return engine.New(lex, engine.WithMaxKeywords(config.Engine.MaxKeywords)), nil
}

// openStore picks Redis when an address is configured and the session file otherwise.
func openStore(ctx context.Context, config *Config, l *zap.Logger) (session.Store, func(), error) {
	rc := config.Session.Redis
	if strings.TrimSpace(rc.Addr) == "" {
		l.Debug("using session file", zap.String("file", config.Session.File))
		return session.NewFileStore(config.Session.File), func() {}, nil
	}

	password, err := secrets.LoadOptional(secrets.Source{
		Name:  "redis password",
		Value: rc.Password,
		File:  rc.PasswordFile,
	})
	if err != nil {
		return nil, nil, err
	}

	store, err := session.NewRedisStore(ctx, session.RedisOptions{
		Addr:     rc.Addr,
		Password: password,
		DB:       rc.DB,
		Key:      rc.Key,
		TTL:      rc.TTL,
	})
	if err != nil {
		return nil, nil, err
	}
	l.Debug("using redis session store", zap.String("addr", rc.Addr), zap.String("key", rc.Key))

	return store, func() {
		if err := store.Close(); err != nil {
			l.Warn("closing redis", zap.Error(err))
		}
	}, nil
}

// openSession restores the stored session.
func openSession(ctx context.Context, config *Config, l *zap.Logger) (*session.Session, session.Store, func()) {
	eng, err := newEngine(config)
	if err != nil {
		l.Fatal("building the engine", zap.Error(err))
	}

	store, closeStore, err := openStore(ctx, config, l)
	if err != nil {
		l.Fatal("opening the session store", zap.Error(err))
	}

	snap, err := store.Load(ctx)
	if err != nil {
		closeStore()
		l.Fatal("loading the session", zap.Error(err))
	}

	sess := session.New(eng, l)
	sess.Restore(snap)
	return sess, store, closeStore
}

func saveSession(ctx context.Context, sess *session.Session, store session.Store) error {
	if err := store.Save(ctx, sess.Snapshot()); err != nil {
		return fmt.Errorf("saving the session: %w", err)
	}
	return nil
}

// printOutput writes v to w as indented json or yaml.
func printOutput(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
