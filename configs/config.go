package config

import (
	"os"
	"strconv"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Facebook struct {
	AppID           string
	AppSecret       string
	GraphAPIVersion string
}

type Gemini struct {
	APIKey string
	Model  string
}

type Config struct {
	PostgresURI      string
	RedisURI         string
	ListenAddr       string
	PublicURL        string
	FrontendURL      string
	Facebook         Facebook
	Gemini           Gemini
	R2               R2
	SecretKey        string
	CookieName       string
	OperatorPassword string
	Timezone         string
	WeeklyGoal       int

	SimulatedTargetsDelay time.Duration
	SimulatedPublishDelay time.Duration
	GapPrefetchSchedule   string
}

func LoadConfig() *Config {
	return &Config{
		PostgresURI: getEnv("POSTGRES_URI", ""),
		RedisURI:    getEnv("REDIS_URI", "127.0.0.1:6379"),
		ListenAddr:  getEnv("LISTEN_ADDR", ":3000"),
		PublicURL:   getEnv("PUBLIC_URL", "http://localhost:3000"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		Facebook: Facebook{
			AppID:           getEnv("FACEBOOK_APP_ID", ""),
			AppSecret:       getEnv("FACEBOOK_APP_SECRET", ""),
			GraphAPIVersion: getEnv("GRAPH_API_VERSION", "v19.0"),
		},
		Gemini: Gemini{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		SecretKey:        getEnv("SECRET_KEY", ""),
		CookieName:       getEnv("COOKIE_NAME", "planner_session"),
		OperatorPassword: getEnv("OPERATOR_PASSWORD", ""),
		Timezone:         getEnv("TIMEZONE", "Local"),
		WeeklyGoal:       getEnvInt("WEEKLY_GOAL", 5),

		SimulatedTargetsDelay: getEnvDuration("SIMULATED_TARGETS_DELAY", time.Second),
		SimulatedPublishDelay: getEnvDuration("SIMULATED_PUBLISH_DELAY", 2*time.Second),
		GapPrefetchSchedule:   getEnv("GAP_PREFETCH_SCHEDULE", "@every 01h00m00s"),
	}
}

// Location returns the zone used to decide what "today" is.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
