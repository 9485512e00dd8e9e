package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DBDSN        string
	LogFile      string
	TemplateDir  string
	StaticDir    string
	CORSOrigins  string
	CookieSecure bool
	SessionIdle  time.Duration
}

const defaultDSN = "file:storeledger.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)&_txlock=immediate"

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found, using environment variables")
	}

	secure, _ := strconv.ParseBool(getEnv("COOKIE_SECURE", "false"))
	idle, err := time.ParseDuration(getEnv("SESSION_IDLE", "12h"))
	if err != nil {
		log.Printf("[config] bad SESSION_IDLE, using 12h: %v", err)
		idle = 12 * time.Hour
	}
	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		DBDSN:        getEnv("DB_DSN", defaultDSN), // sqlite file in project root
		LogFile:      getEnv("LOG_FILE", "./storeledger.log"),
		TemplateDir:  getEnv("TEMPLATE_DIR", "./web/templates"),
		StaticDir:    getEnv("STATIC_DIR", "./web/static"),
		CORSOrigins:  getEnv("CORS_ORIGINS", "*"),
		CookieSecure: secure,
		SessionIdle:  idle,
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s TEMPLATE_DIR=%s STATIC_DIR=%s",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.TemplateDir, cfg.StaticDir)
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
