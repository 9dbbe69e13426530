package config

import (
	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset   int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	GeminiAPIKey         string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel          string `mapstructure:"GEMINI_MODEL"`
	GeminiBaseURL        string `mapstructure:"GEMINI_BASE_URL"`
	AITimeoutSeconds     int    `mapstructure:"AI_TIMEOUT_SECONDS"`
	SMTPHost             string `mapstructure:"SMTP_HOST"`
	SMTPPort             int    `mapstructure:"SMTP_PORT"`
	SMTPUsername         string `mapstructure:"SMTP_USERNAME"`
	SendGridAPIKey       string `mapstructure:"SENDGRID_API_KEY"`
	SendGridSenderEmail  string `mapstructure:"SENDGRID_SENDER_EMAIL"`
	PublicAppURL         string `mapstructure:"PUBLIC_APP_URL"`
	AdminJWTSecret       string `mapstructure:"ADMIN_JWT_SECRET"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
}

var ConfigInstance Config

var defaults = map[string]any{
	"SERVER_PORT":        8280,
	"DB_PORT":            5432,
	"DB_CACHE_RESET":     -1,
	"CORS_ALLOW_ORIGINS": "*",
	"GEMINI_MODEL":       "gemini-2.5-flash",
	"GEMINI_BASE_URL":    "https://generativelanguage.googleapis.com/v1beta",
	"AI_TIMEOUT_SECONDS": 20,
	"SMTP_HOST":          "smtp.sendgrid.net",
	"SMTP_PORT":          587,
	"SMTP_USERNAME":      "apikey",
	"PUBLIC_APP_URL":     "http://localhost:5173",
}

var envVars = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
	"CORS_ALLOW_ORIGINS",
	"GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL", "AI_TIMEOUT_SECONDS",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SENDGRID_API_KEY", "SENDGRID_SENDER_EMAIL",
	"PUBLIC_APP_URL", "ADMIN_JWT_SECRET", "SCHEDULER_ENABLED",
}

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	for key, value := range defaults {
		viper.SetDefault(key, value)
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	envVarsSet := viper.IsSet("DB_HOST") && viper.IsSet("DB_NAME")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info(
		"Successfully initialized config",
		"environment", config.Environment,
		"port", config.ServerPort,
		"aiEnabled", config.AIEnabled(),
		"emailEnabled", config.EmailEnabled(),
	)

	return ConfigInstance, nil
}

func GetConfig() Config {
	return ConfigInstance
}

// AIEnabled reports whether the hosted model can be reached at all.
func (c Config) AIEnabled() bool {
	return c.GeminiAPIKey != ""
}

func (c Config) EmailEnabled() bool {
	return c.SendGridAPIKey != "" && c.SendGridSenderEmail != "" && c.SMTPHost != ""
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error("Fatal error: invalid server port", "port", config.ServerPort)
	}

	if config.AITimeoutSeconds <= 0 {
		return log.Error("Fatal error: invalid AI timeout", "seconds", config.AITimeoutSeconds)
	}

	if config.SendGridAPIKey != "" && config.SendGridSenderEmail == "" {
		return log.ErrMsg("Fatal error: SENDGRID_SENDER_EMAIL required when SENDGRID_API_KEY is set")
	}

	if config.SMTPPort <= 0 {
		return log.Error("Fatal error: invalid SMTP port", "port", config.SMTPPort)
	}

	ConfigInstance = config
	return nil
}
