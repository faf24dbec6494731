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
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name    string
	Env     string // development / production
	BaseURL string // 邮件里的链接前缀，如 https://carexchange.example.com
	HTTP    HTTP
	Admin   AdminHTTP
}

type Log struct {
	Level string
	JSON  bool
}

type JWT struct {
	Secret         string
	Issuer         string
	SessionTTLDays int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Upload struct {
	Dir       string // 头像等上传文件落盘目录
	MaxSizeMB int
}

type Config struct {
	App    App
	Log    Log
	JWT    JWT
	DB     DB
	Redis  Redis `mapstructure:"redis"`
	SMTP   SMTP  `mapstructure:"smtp"`
	Upload Upload
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
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.env", "development")
	v.SetDefault("jwt.issuer", "carexchange")
	v.SetDefault("jwt.sessionttldays", 30)
	v.SetDefault("upload.dir", "./uploads")
	v.SetDefault("upload.maxsizemb", 5)

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	return &c
}

// IsProd 生产环境下会话 Cookie 加 Secure
func (c *Config) IsProd() bool { return strings.EqualFold(c.App.Env, "production") }
