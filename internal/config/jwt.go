package config

import "time"

const defaultTokenTTL = 24 * time.Hour

// JWTConfig содержит настройки токенов и хэширования паролей.
type JWTConfig struct {
	SecretKey  string `yaml:"secret_key" env:"EMPHUB_JWT_SECRET_KEY" env-default:"super-secret-key-change-me-in-production"`
	TokenTTL   string `yaml:"token_ttl" env:"EMPHUB_JWT_TOKEN_TTL" env-default:"24h"`
	BCryptCost int    `yaml:"bcrypt_cost" env:"EMPHUB_BCRYPT_COST" env-default:"10"`
}

// GetTokenTTL возвращает время жизни токена, 24 часа при некорректном значении.
func (c *JWTConfig) GetTokenTTL() time.Duration {
	duration, err := time.ParseDuration(c.TokenTTL)
	if err != nil || duration <= 0 {
		return defaultTokenTTL
	}
	return duration
}
