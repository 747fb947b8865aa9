package config

import (
	"crypto/rsa"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
)

type Config struct {
	JWTPrivateKey  *rsa.PrivateKey
	JWTPublicKey   *rsa.PublicKey
	DBDriver       string
	DatabaseURL    string
	RedisAddress   string
	RedisPassword  string
	Port           string
	TokenTTL       time.Duration
	BcryptCost     int
	Cutoff         domain.CutoffPolicy
	AllowedOrigins []string
}

// Load reads the API configuration from the environment. A .env file in the
// working directory is applied first when present. Missing required values
// panic, the process cannot serve without them.
func Load() *Config {
	loadDotEnv()

	privateKey, err := loadPrivateKey(getEnv("PRIVATE_KEY_PATH", "/etc/certs/private.pem"))
	if err != nil {
		panic("Failed to load private key: " + err.Error())
	}

	publicKey, err := loadPublicKey(getEnv("PUBLIC_KEY_PATH", "/etc/certs/public.pem"))
	if err != nil {
		panic("Failed to load public key: " + err.Error())
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	cutoff, err := CutoffPolicy(getEnv("CUTOFF_TIME", "18:00"), getEnv("TIMEZONE", "Local"))
	if err != nil {
		panic(err.Error())
	}

	return &Config{
		JWTPrivateKey:  privateKey,
		JWTPublicKey:   publicKey,
		DBDriver:       getEnv("DB_DRIVER", "postgres"),
		DatabaseURL:    dbURL,
		RedisAddress:   getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		Port:           getEnv("PORT", "8080"),
		TokenTTL:       durationEnv("TOKEN_TTL", 12*time.Hour),
		BcryptCost:     intEnv("BCRYPT_COST", 12),
		Cutoff:         cutoff,
		AllowedOrigins: listEnv("ALLOWED_ORIGINS", []string{"*"}),
	}
}

// CutoffPolicy builds the selection cutoff from an HH:MM time and an IANA
// zone name.
func CutoffPolicy(cutoff, timezone string) (domain.CutoffPolicy, error) {
	hour, minute, err := domain.ParseCutoff(cutoff)
	if err != nil {
		return domain.CutoffPolicy{}, err
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return domain.CutoffPolicy{}, fmt.Errorf("invalid TIMEZONE %q: %w", timezone, err)
	}
	return domain.CutoffPolicy{Hour: hour, Minute: minute, Location: loc}, nil
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: ignoring .env: %v", err)
	}
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPrivateKeyFromPEM(keyData)
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPublicKeyFromPEM(keyData)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("config: invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("config: invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}

func listEnv(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
