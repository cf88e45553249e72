package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName    string
	Environment    string
	DatabaseURL    string
	RedisURL       string
	HTTPListenAddr string
	LogLevel       string
	CORSOrigins    []string

	TemporalAddress   string
	TemporalNamespace string
	TemporalTaskQueue string
	// Temporal mTLS. Cert and key must be set together.
	TemporalTLSCert       string
	TemporalTLSKey        string
	TemporalTLSCACert     string
	TemporalTLSServerName string

	JWTSecret string
	JWTTTL    time.Duration

	// MailAPIURL selects the HTTP mail sender. Empty means mail is logged only.
	MailAPIURL   string
	MailAPIToken string
	MailFrom     string
	SupportEmail string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	MetricsAddr string
	TrialDays   int
	TrialPlan   string
}

func Load() (*Config, error) {
	cfg := &Config{
		ServiceName:           getEnv("SERVICE_NAME", "easybudget"),
		Environment:           getEnv("APP_ENV", "development"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		RedisURL:              getEnv("REDIS_URL", ""),
		HTTPListenAddr:        getEnv("HTTP_LISTEN_ADDR", ":8080"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		CORSOrigins:           splitList(getEnv("CORS_ORIGINS", "*")),
		TemporalAddress:       getEnv("TEMPORAL_ADDRESS", "localhost:7233"),
		TemporalNamespace:     getEnv("TEMPORAL_NAMESPACE", "default"),
		TemporalTaskQueue:     getEnv("TEMPORAL_TASK_QUEUE", "easybudget"),
		TemporalTLSCert:       getEnv("TEMPORAL_TLS_CERT", ""),
		TemporalTLSKey:        getEnv("TEMPORAL_TLS_KEY", ""),
		TemporalTLSCACert:     getEnv("TEMPORAL_TLS_CA_CERT", ""),
		TemporalTLSServerName: getEnv("TEMPORAL_TLS_SERVER_NAME", ""),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		MailAPIURL:            getEnv("MAIL_API_URL", ""),
		MailAPIToken:          getEnv("MAIL_API_TOKEN", ""),
		MailFrom:              getEnv("MAIL_FROM", "no-reply@easybudget.local"),
		SupportEmail:          getEnv("SUPPORT_EMAIL", "support@easybudget.local"),
		S3Endpoint:            getEnv("S3_ENDPOINT", ""),
		S3Region:              getEnv("S3_REGION", "us-east-1"),
		S3Bucket:              getEnv("S3_BUCKET", ""),
		S3AccessKey:           getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:           getEnv("S3_SECRET_KEY", ""),
		MetricsAddr:           getEnv("METRICS_ADDR", ":9090"),
		TrialPlan:             getEnv("TRIAL_PLAN", "trial"),
	}

	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("parse JWT_TTL: %w", err)
	}
	cfg.JWTTTL = ttl

	cfg.TrialDays, err = strconv.Atoi(getEnv("TRIAL_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("parse TRIAL_DAYS: %w", err)
	}

	return cfg, nil
}

// Validate reports every setting the given binary ("api" or "worker")
// needs but does not have.
func (c *Config) Validate(component string) error {
	var missing []string
	require := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}

	require("DATABASE_URL", c.DatabaseURL)
	require("TEMPORAL_ADDRESS", c.TemporalAddress)
	switch component {
	case "api":
		require("HTTP_LISTEN_ADDR", c.HTTPListenAddr)
		require("JWT_SECRET", c.JWTSecret)
	case "worker":
		require("TEMPORAL_TASK_QUEUE", c.TemporalTaskQueue)
	}

	var problems []string
	if len(missing) > 0 {
		problems = append(problems, "missing required settings: "+strings.Join(missing, ", "))
	}
	if (c.TemporalTLSCert == "") != (c.TemporalTLSKey == "") {
		problems = append(problems, "TEMPORAL_TLS_CERT and TEMPORAL_TLS_KEY must both be set")
	}
	if len(problems) > 0 {
		return fmt.Errorf("config for %s: %s", component, strings.Join(problems, "; "))
	}
	return nil
}

// S3Enabled reports whether report uploads are configured.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
