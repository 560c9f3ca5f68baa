package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env               string
	Port              string
	DatabaseURL       string
	RedisURL          string
	JWTSecret         string
	AdminSecret       string // shared secret required by /auth/register-admin
	SupabaseURL       string
	SupabaseSecretKey string // must be the service_role key, not the anon key
	KYCBucket         string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL")
	if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}

	bucket := viper.GetString("KYC_BUCKET")
	if bucket == "" {
		bucket = "realestate-kyc-documents"
	}

	return &Config{
		Env:               env,
		Port:              port,
		DatabaseURL:       dbURL,
		RedisURL:          viper.GetString("REDIS_URL"),
		JWTSecret:         viper.GetString("JWT_SECRET"),
		AdminSecret:       viper.GetString("ADMIN_SECRET"),
		SupabaseURL:       viper.GetString("SUPABASE_URL"),
		SupabaseSecretKey: viper.GetString("SUPABASE_SECRET_KEY"),
		KYCBucket:         bucket,
	}, nil
}
