package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ENV             = "ENV"
	PORT            = "PORT"
	MYSQL_URI       = "MYSQL_URI"
	MONGODB_URI     = "MONGODB_URI"
	REDIS_URI       = "REDIS_URI"
	JWT_SECRET      = "JWT_SECRET"
	JWT_EXPIRATION  = "JWT_EXPIRATION"
	WEBHOOK_TIMEOUT = "WEBHOOK_TIMEOUT"
	ALLOWED_ORIGINS = "ALLOWED_ORIGINS"
	LOG_LEVEL       = "LOG_LEVEL"

	ENV_DEVELOPMENT = "development"
	ENV_HOMOLOG     = "homolog"
	ENV_RELEASE     = "production"

	DEFAULT_JWT_EXPIRATION  = 24 * time.Hour
	DEFAULT_WEBHOOK_TIMEOUT = 30 * time.Second
)

var requiredKeys = []string{ENV, PORT, MYSQL_URI, MONGODB_URI, REDIS_URI, JWT_SECRET}

var allowedKeys = append(slices.Clone(requiredKeys), JWT_EXPIRATION, WEBHOOK_TIMEOUT, ALLOWED_ORIGINS, LOG_LEVEL)

var allowedEnvValues = []string{ENV_DEVELOPMENT, ENV_HOMOLOG, ENV_RELEASE}

type Config struct {
	Env            string
	Port           string
	MySQLURI       string
	MongoURI       string
	RedisURI       string
	JWTSecret      string
	JWTExpiration  time.Duration
	WebhookTimeout time.Duration
	AllowedOrigins []string
	LogLevel       string
}

// LoadEnvVariables copies the allowed keys of ./.env (if present) into the
// process environment. Variables already set in the environment win.
func LoadEnvVariables() error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("[ENV] Erro ao obter o diretório de trabalho: %w", err)
	}

	filePath := filepath.Join(workDir, ".env")
	if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	values, err := godotenv.Read(filePath)
	if err != nil {
		return fmt.Errorf("[ENV] Erro ao ler o arquivo .env: %w", err)
	}

	for key, value := range values {
		if !slices.Contains(allowedKeys, key) {
			return fmt.Errorf("[ENV] Chave '%s' não é permitida. Chaves permitidas: %s",
				key, strings.Join(allowedKeys, ", "))
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("[ENV] Erro ao definir variável de ambiente %s: %w", key, err)
		}
	}

	return nil
}

// LoadConfig reads and validates the process environment.
func LoadConfig() (*Config, error) {
	var missingKeys []string
	for _, key := range requiredKeys {
		if strings.TrimSpace(os.Getenv(key)) == "" {
			missingKeys = append(missingKeys, key)
		}
	}
	if len(missingKeys) > 0 {
		return nil, fmt.Errorf("[ENV] Variáveis de ambiente obrigatórias ausentes: %s",
			strings.Join(missingKeys, ", "))
	}

	env := os.Getenv(ENV)
	if !slices.Contains(allowedEnvValues, env) {
		return nil, fmt.Errorf("[ENV] Valor inválido para ENV: %s. Valores permitidos: %s",
			env, strings.Join(allowedEnvValues, ", "))
	}

	jwtExpiration, err := durationFromEnv(JWT_EXPIRATION, DEFAULT_JWT_EXPIRATION)
	if err != nil {
		return nil, err
	}
	webhookTimeout, err := durationFromEnv(WEBHOOK_TIMEOUT, DEFAULT_WEBHOOK_TIMEOUT)
	if err != nil {
		return nil, err
	}

	var allowedOrigins []string
	for _, origin := range strings.Split(os.Getenv(ALLOWED_ORIGINS), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowedOrigins = append(allowedOrigins, origin)
		}
	}

	logLevel := os.Getenv(LOG_LEVEL)
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		Env:            env,
		Port:           os.Getenv(PORT),
		MySQLURI:       os.Getenv(MYSQL_URI),
		MongoURI:       os.Getenv(MONGODB_URI),
		RedisURI:       os.Getenv(REDIS_URI),
		JWTSecret:      os.Getenv(JWT_SECRET),
		JWTExpiration:  jwtExpiration,
		WebhookTimeout: webhookTimeout,
		AllowedOrigins: allowedOrigins,
		LogLevel:       logLevel,
	}, nil
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("[ENV] Valor inválido para %s: %s", key, raw)
	}
	return d, nil
}
