package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuracion del cliente.
type Config struct {
	APIURL        string        `env:"TODO_API_URL" envDefault:"http://localhost:8000"`
	HTTPTimeout   time.Duration `env:"TODO_HTTP_TIMEOUT" envDefault:"10s"`
	SessionStore  string        `env:"TODO_SESSION_STORE" envDefault:"file"`
	SessionFile   string        `env:"TODO_SESSION_FILE"`
	SessionKey    string        `env:"TODO_SESSION_KEY" envDefault:"jwt"`
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	OTPSeconds    int           `env:"TODO_OTP_SECONDS" envDefault:"180"`
	RedirectDelay time.Duration `env:"TODO_REDIRECT_DELAY" envDefault:"500ms"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"warn"`
	LogFormat     string        `env:"LOG_FORMAT" envDefault:"console"`
}

// LoadConfig carga la configuracion desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if cfg.SessionFile == "" {
		cfg.SessionFile = DefaultSessionFile()
	}
	if cfg.OTPSeconds <= 0 {
		cfg.OTPSeconds = 180
	}
	return &cfg, nil
}

// DefaultSessionFile devuelve la ruta por defecto del token persistido.
func DefaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "todo-client", "session.json")
}
