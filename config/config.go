package config

import "os"

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	GmailUser  string
	GmailPass  string
	BucketName string
}

func LoadConfig() Config {
	return Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "stage_entry"),
		JWTSecret:  getEnv("JWT_SECRET", "dev-secret"),
		GmailUser:  getEnv("GMAIL_USER", ""),
		GmailPass:  getEnv("GMAIL_APP_PASSWORD", ""),
		BucketName: getEnv("BUCKET_NAME", "stage-entry-uploads"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
