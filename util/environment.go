package util

import (
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"railbird.club/server/logging"
)

var envLogger = logging.GetZeroLogger("util::env", os.Stdout)

type environmentDef struct {
	PersistMethod   string
	RedisHost       string
	RedisPort       string
	RedisPW         string
	RedisDB         string
	PostgresHost    string
	PostgresPort    string
	PostgresUser    string
	PostgresPW      string
	PostgresDB      string
	PostgresSSLMode string
	NatsURL         string
	ListenPort      string
	LogLevel        string
	EnableBurnCards string
}

// Env exposes the server configuration that comes from the environment.
// Getters fall back to defaults for optional settings and panic through
// the logger for settings that have no usable default.
var Env = &environmentDef{
	PersistMethod:   "PERSIST_METHOD",
	RedisHost:       "REDIS_HOST",
	RedisPort:       "REDIS_PORT",
	RedisPW:         "REDIS_PW",
	RedisDB:         "REDIS_DB",
	PostgresHost:    "POSTGRES_HOST",
	PostgresPort:    "POSTGRES_PORT",
	PostgresUser:    "POSTGRES_USER",
	PostgresPW:      "POSTGRES_PASSWORD",
	PostgresDB:      "POSTGRES_DB",
	PostgresSSLMode: "POSTGRES_SSL_MODE",
	NatsURL:         "NATS_URL",
	ListenPort:      "LISTEN_PORT",
	LogLevel:        "LOG_LEVEL",
	EnableBurnCards: "ENABLE_BURN_CARDS",
}

func (e *environmentDef) GetPersistMethod() string {
	method := os.Getenv(e.PersistMethod)
	if method == "" {
		// In-memory persistence needs no infrastructure and is the
		// default for dev tables.
		return "memory"
	}
	return method
}

func (e *environmentDef) GetRedisHost() string {
	host := os.Getenv(e.RedisHost)
	if host == "" {
		msg := "REDIS_HOST is not defined"
		envLogger.Error().Msg(msg)
		panic(msg)
	}
	return host
}

func (e *environmentDef) GetRedisPort() int {
	portStr := os.Getenv(e.RedisPort)
	if portStr == "" {
		msg := "REDIS_PORT is not defined"
		envLogger.Error().Msg(msg)
		panic(msg)
	}
	portNum, err := strconv.Atoi(portStr)
	if err != nil {
		msg := "REDIS_PORT is not a number"
		envLogger.Error().Msgf("%s: %s", msg, portStr)
		panic(msg)
	}
	return portNum
}

func (e *environmentDef) GetRedisPW() string {
	return os.Getenv(e.RedisPW)
}

func (e *environmentDef) GetRedisDB() int {
	dbStr := os.Getenv(e.RedisDB)
	if dbStr == "" {
		msg := "REDIS_DB is not defined"
		envLogger.Error().Msg(msg)
		panic(msg)
	}
	dbNum, err := strconv.Atoi(dbStr)
	if err != nil {
		msg := "REDIS_DB is not a number"
		envLogger.Error().Msgf("%s: %s", msg, dbStr)
		panic(msg)
	}
	return dbNum
}

// IsCardMapEnabled reports whether the scan-to-card database is
// configured. Without it, scanned-card ingestion falls back to the
// built-in static mapping.
func (e *environmentDef) IsCardMapEnabled() bool {
	return os.Getenv(e.PostgresHost) != ""
}

func (e *environmentDef) GetPostgresHost() string {
	host := os.Getenv(e.PostgresHost)
	if host == "" {
		msg := "POSTGRES_HOST is not defined"
		envLogger.Error().Msg(msg)
		panic(msg)
	}
	return host
}

func (e *environmentDef) GetPostgresPort() int {
	portStr := os.Getenv(e.PostgresPort)
	if portStr == "" {
		return 5432
	}
	portNum, err := strconv.Atoi(portStr)
	if err != nil {
		msg := "POSTGRES_PORT is not a number"
		envLogger.Error().Msgf("%s: %s", msg, portStr)
		panic(msg)
	}
	return portNum
}

func (e *environmentDef) GetPostgresUser() string {
	user := os.Getenv(e.PostgresUser)
	if user == "" {
		msg := "POSTGRES_USER is not defined"
		envLogger.Error().Msg(msg)
		panic(msg)
	}
	return user
}

func (e *environmentDef) GetPostgresPW() string {
	pw := os.Getenv(e.PostgresPW)
	if pw == "" {
		msg := "POSTGRES_PASSWORD is not defined"
		envLogger.Error().Msg(msg)
		panic(msg)
	}
	return pw
}

func (e *environmentDef) GetPostgresDB() string {
	db := os.Getenv(e.PostgresDB)
	if db == "" {
		msg := "POSTGRES_DB is not defined"
		envLogger.Error().Msg(msg)
		panic(msg)
	}
	return db
}

func (e *environmentDef) GetPostgresSSLMode() string {
	mode := os.Getenv(e.PostgresSSLMode)
	if mode == "" {
		return "disable"
	}
	return mode
}

// GetNatsURL returns the NATS server URL, or "" when table updates
// should not be pushed anywhere.
func (e *environmentDef) GetNatsURL() string {
	return os.Getenv(e.NatsURL)
}

func (e *environmentDef) GetListenPort() int {
	portStr := os.Getenv(e.ListenPort)
	if portStr == "" {
		return 8080
	}
	portNum, err := strconv.Atoi(portStr)
	if err != nil {
		msg := "LISTEN_PORT is not a number"
		envLogger.Error().Msgf("%s: %s", msg, portStr)
		panic(msg)
	}
	return portNum
}

func (e *environmentDef) GetLogLevel() string {
	level := os.Getenv(e.LogLevel)
	if level == "" {
		return "info"
	}
	return level
}

func (e *environmentDef) GetZeroLogLogLevel() zerolog.Level {
	l := e.GetLogLevel()
	switch l {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		envLogger.Warn().Msgf("Unknown log level [%s]. Defaulting to info level", l)
		return zerolog.InfoLevel
	}
}

// ShouldBurnCards reports whether a card is burned before each street.
// Physical tables burn by default; set ENABLE_BURN_CARDS=false for
// simulated decks that never misdeal.
func (e *environmentDef) ShouldBurnCards() bool {
	v := os.Getenv(e.EnableBurnCards)
	if v == "" {
		return true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		envLogger.Warn().Msgf("ENABLE_BURN_CARDS is not a boolean: %s. Defaulting to true", v)
		return true
	}
	return b
}
