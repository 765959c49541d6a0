package config

import (
	"strings"
)

type EnvVars struct {
	Port        string `env:"PORT"         envDefault:"8080"`
	AppName     string `env:"APP_NAME"     envDefault:"Berhot"`
	Env         string `env:"ENV"          envDefault:"DEV"`
	LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"`
	StaticDir   string `env:"STATIC_DIR"   envDefault:"./web"`
	BackendURL  string `env:"BACKEND_URL"  envDefault:"http://localhost:8090"`
	RedisAddr   string `env:"REDIS_ADDR"`
	RedisPrefix string `env:"REDIS_PREFIX" envDefault:"berhot"`
}

var _ EnvConfig = EnvVars{}

// GetPort returns the listen address, ":8080" style.
func (e EnvVars) GetPort() string {
	port := strings.TrimSpace(e.Port)
	if port == "" {
		port = "8080"
	}
	if port[0] != ':' {
		port = ":" + port
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	return strings.ToUpper(e.Env)
}

func (e EnvVars) IsDev() bool {
	return e.GetEnv() == "DEV"
}

func (e EnvVars) GetLogLevel() string {
	return strings.ToLower(e.LogLevel)
}

func (e EnvVars) GetStaticDir() string {
	return e.StaticDir
}

func (e EnvVars) GetBackendURL() string {
	return strings.TrimRight(e.BackendURL, "/")
}

// GetRedisAddr is empty when Redis is not configured.
func (e EnvVars) GetRedisAddr() string {
	return e.RedisAddr
}

func (e EnvVars) GetRedisPrefix() string {
	return e.RedisPrefix
}
