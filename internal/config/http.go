package config

import (
	"fmt"
	"time"
)

// HTTPConfig представляет конфигурацию HTTP сервера.
type HTTPConfig struct {
	Host         string        `yaml:"host" env:"EMPHUB_HTTP_HOST" env-default:"0.0.0.0"`
	Port         int           `yaml:"port" env:"EMPHUB_HTTP_PORT" env-default:"5001"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"EMPHUB_HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"EMPHUB_HTTP_WRITE_TIMEOUT" env-default:"15s"`
	BodyLimit    int           `yaml:"body_limit" env:"EMPHUB_HTTP_BODY_LIMIT" env-default:"5242880"`
	CORSOrigins  []string      `yaml:"cors_origins" env:"EMPHUB_HTTP_CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173,http://localhost:3000,https://employee-front-black.vercel.app"`
}

// GetAddress возвращает адрес HTTP сервера.
func (c *HTTPConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
