package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
)

const EnvPrefix = "KANSO_"

type Application struct {
	Log      Log      `koanf:"log"`
	Server   Server   `koanf:"server"`
	Database Database `koanf:"db"`
	Redis    Redis    `koanf:"redis"`
	Auth     Auth     `koanf:"auth"`
	Stats    Stats    `koanf:"stats"`
}

type Log struct {
	Level string `koanf:"level"`
}

type Server struct {
	Port         string        `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"readtimeout"`
	WriteTimeout time.Duration `koanf:"writetimeout"`
	IdleTimeout  time.Duration `koanf:"idletimeout"`
	RateLimit    int           `koanf:"ratelimit"`
	RateWindow   time.Duration `koanf:"ratewindow"`
}

type Database struct {
	Host    string `koanf:"host"`
	Port    int    `koanf:"port"`
	User    string `koanf:"user"`
	Pass    string `koanf:"pass"`
	Name    string `koanf:"name"`
	SSLMode string `koanf:"sslmode"`
	MaxOpen int    `koanf:"maxopen"`
	MaxIdle int    `koanf:"maxidle"`
	Migrate bool   `koanf:"migrate"`
}

type Redis struct {
	Host string `koanf:"host"`
	Port string `koanf:"port"`
	Pass string `koanf:"pass"`
	DB   int    `koanf:"db"`
}

type Auth struct {
	Secret string `koanf:"secret"`
	Issuer string `koanf:"issuer"`
}

type Stats struct {
	StartOfWeek string        `koanf:"startofweek"`
	ReportTTL   time.Duration `koanf:"reportttl"`
	HabitTTL    time.Duration `koanf:"habitttl"`
	QueueSize   int           `koanf:"queuesize"`
}

// DSN builds a postgres URL usable by both pgx and golang-migrate. User and
// password are escaped.
func (d Database) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

func Defaults() Application {
	return Application{
		Log: Log{Level: "info"},
		Server: Server{
			Port:         "8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
			RateLimit:    100,
			RateWindow:   time.Minute,
		},
		Database: Database{
			Host:    "localhost",
			Port:    5432,
			User:    "kanso",
			Name:    "kanso",
			SSLMode: "disable",
			MaxOpen: 25,
			MaxIdle: 25,
			Migrate: true,
		},
		Redis: Redis{
			Host: "localhost",
			Port: "6379",
		},
		Auth: Auth{
			Issuer: "kanso",
		},
		Stats: Stats{
			StartOfWeek: string(domain.WeekStartsMonday),
			ReportTTL:   10 * time.Minute,
			HabitTTL:    24 * time.Hour,
			QueueSize:   100,
		},
	}
}

// Load layers defaults, the optional YAML file at path and KANSO_* variables.
// A .env file in the working directory is read into the environment first.
// KANSO_DB_HOST maps to db.host.
func Load(path string) (Application, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("failed to read .env file: %v", err)
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return Application{}, fmt.Errorf("config: defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.Infof("Config file not found at %s, using defaults and environment variables", path)
			} else {
				return Application{}, fmt.Errorf("config: yaml: %w", err)
			}
		} else {
			log.Infof("Loaded configuration from file: %s", path)
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, EnvPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		return Application{}, fmt.Errorf("config: env: %w", err)
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	return app, app.Validate()
}

func (a Application) Validate() error {
	if _, err := log.ParseLevel(a.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := domain.ParseStartOfWeek(a.Stats.StartOfWeek); err != nil {
		return fmt.Errorf("config: stats.startofweek: %w", err)
	}
	if a.Stats.QueueSize <= 0 {
		return errors.New("config: stats.queuesize must be positive")
	}
	return nil
}
