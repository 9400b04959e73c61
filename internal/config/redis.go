package config

import (
	"net"
	"strconv"
	"time"
)

// RedisConfig описывает подключение к Redis, который хранит счетчики неудачных входов.
type RedisConfig struct {
	Enabled             bool          `yaml:"enabled" env:"EMPHUB_REDIS_ENABLED" env-default:"false"`
	Host                string        `yaml:"host" env:"EMPHUB_REDIS_HOST" env-default:"localhost"`
	Port                int           `yaml:"port" env:"EMPHUB_REDIS_PORT" env-default:"6379"`
	Password            string        `yaml:"password" env:"EMPHUB_REDIS_PASSWORD" env-default:""`
	DB                  int           `yaml:"db" env:"EMPHUB_REDIS_DB" env-default:"0"`
	ConnectTimeout      time.Duration `yaml:"connect_timeout" env:"EMPHUB_REDIS_CONNECT_TIMEOUT" env-default:"5s"`
	ReadTimeout         time.Duration `yaml:"read_timeout" env:"EMPHUB_REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout        time.Duration `yaml:"write_timeout" env:"EMPHUB_REDIS_WRITE_TIMEOUT" env-default:"3s"`
	PoolSize            int           `yaml:"pool_size" env:"EMPHUB_REDIS_POOL_SIZE" env-default:"10"`
	ThrottleWindow      time.Duration `yaml:"throttle_window" env:"EMPHUB_LOGIN_THROTTLE_WINDOW" env-default:"15m"`
	ThrottleMaxAttempts int           `yaml:"throttle_max_attempts" env:"EMPHUB_LOGIN_THROTTLE_MAX_ATTEMPTS" env-default:"5"`
}

// GetAddress возвращает адрес Redis в формате host:port.
func (c *RedisConfig) GetAddress() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
