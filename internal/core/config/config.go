package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Log struct {
	Level string
	JSON  bool
}

type DB struct {
	Driver             string
	DSN                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Session expiry values are policy, not mechanism; both deadlines are
// reconfigurable without touching the session code.
type Session struct {
	Secret           string
	Issuer           string
	AbsoluteTTLHours int
	IdleTTLHours     int
}

type Argon struct {
	TimeCost      int
	MemoryKiB     int
	Lanes         int
	MaxConcurrent int
}

type Files struct {
	Dir string
}

type Proxy struct {
	TimeoutSec   int
	CacheTTLSec  int
	MaxBodyBytes int64
}

type Config struct {
	App     App
	Log     Log
	DB      DB
	Redis   Redis `mapstructure:"redis"`
	Session Session
	Argon   Argon
	Files   Files
	Proxy   Proxy
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("WEGO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 10)
	v.SetDefault("app.http.writetimeoutsec", 30)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("db.maxopenconns", 6)
	v.SetDefault("db.maxidleconns", 3)
	v.SetDefault("db.connmaxlifetimemin", 60)
	v.SetDefault("session.issuer", "wego")
	v.SetDefault("session.absolutettlhours", 14*24)
	v.SetDefault("session.idlettlhours", 7*24)
	v.SetDefault("argon.timecost", 4)
	v.SetDefault("argon.memorykib", 4096)
	v.SetDefault("argon.lanes", 1)
	v.SetDefault("argon.maxconcurrent", 4)
	v.SetDefault("files.dir", "./files")
	v.SetDefault("proxy.timeoutsec", 10)
	v.SetDefault("proxy.cachettlsec", 3600)
	v.SetDefault("proxy.maxbodybytes", 4<<20)

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	return &c
}
