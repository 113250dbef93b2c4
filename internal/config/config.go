package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionSecret       string
	DatabaseURL         string
	SQLitePath          string // fallback store when no Postgres DSN is set
	RedisURL            string
	DataDir             string // directory holding the tabular dataset files
	FrontendURLEndsWith string
	AllowCrossSiteDev   bool
	HealthAdminKey      string
	MaxUploadMB         int
	AdminUsername       string
	AdminPassword       string // seeds the default admin account on first boot
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

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = viper.GetString("DATABASE_URL")
	}

	dataDir := viper.GetString("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	sqlitePath := viper.GetString("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = "fleetops.db"
	}
	maxUpload := viper.GetInt("MAX_UPLOAD_MB")
	if maxUpload <= 0 {
		maxUpload = 100
	}
	adminUser := viper.GetString("ADMIN_USERNAME")
	if adminUser == "" {
		adminUser = "admin"
	}

	return &Config{
		Env:                 env,
		Port:                port,
		SessionSecret:       viper.GetString("SESSION_SECRET"),
		DatabaseURL:         dbURL,
		SQLitePath:          sqlitePath,
		RedisURL:            viper.GetString("REDIS_URL"),
		DataDir:             dataDir,
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
		MaxUploadMB:         maxUpload,
		AdminUsername:       adminUser,
		AdminPassword:       viper.GetString("ADMIN_PASSWORD"),
	}, nil
}
