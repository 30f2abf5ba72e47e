package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable the server reads.
const EnvPrefix = "GRATITUDES_"

// dotenvFile is loaded (if present) before the environment is read.
// Variables already set in the process environment win.
var dotenvFile = ".env"

// parseEnv overlays GRATITUDES_* variables. Malformed numeric values panic,
// the same as malformed config files.
func parseEnv(config *Config) {
	_ = godotenv.Load(dotenvFile)

	envString(&config.EndpointAddrHTTP, "ENDPOINT_ADDR_HTTP")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "SECRET_KEY")
	envMinutes(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_VALIDITY_MINUTES")
	envMinutes(&config.RefreshTokenValidityDuration, "REFRESH_TOKEN_VALIDITY_MINUTES")
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envString(&config.Timezone, "TIMEZONE")
	envString(&config.LogFormat, "LOG_FORMAT")

	if v, ok := lookup("DAILY_ENTRY_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.DailyEntryLimit = n
	}
	if v, ok := lookup("RATE_LIMIT_RPS"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic(err)
		}
		config.RateLimitRPS = f
	}
	if v, ok := lookup("MAX_AUDIO_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			panic(err)
		}
		config.MaxAudioBytes = n
	}
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func envString(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

func envMinutes(dst *time.Duration, name string) {
	v, ok := lookup(name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = time.Duration(n) * time.Minute
}
