package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Ledger modes. Mirror hands balance ownership to the chain indexer; the
// faucet and deposit-side debits are disabled there.
const (
	LedgerModeInternal = "internal"
	LedgerModeMirror   = "mirror"
)

type Config struct {
	MySQLDSN      string
	RedisURL      string
	JWTSecret     string
	Port          string
	AllowedOrigin string

	// Chain integration; empty RPCURL disables the watcher and indexer.
	RPCURL       string
	LedgerMode   string
	PollInterval int

	// Deadline sweeper cadence, a cron spec.
	SweepSpec string

	// Optional TLS key pair; both must be set to serve HTTPS.
	TLSCert string
	TLSKey  string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func Load() Config {
	_ = godotenv.Load()

	pi, _ := strconv.Atoi(getenv("POLL_INTERVAL", "60"))
	cfg := Config{
		MySQLDSN:      getenv("MYSQL_DSN", "daogov:daogov@tcp(127.0.0.1:3306)/daogov?parseTime=true"),
		RedisURL:      getenv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		JWTSecret:     getenv("JWT_SECRET", "change-me-in-production"),
		Port:          getenv("PORT", "8080"),
		AllowedOrigin: getenv("ALLOWED_ORIGIN", "http://localhost:3000"),
		RPCURL:        os.Getenv("RPC_URL"),
		LedgerMode:    getenv("LEDGER_MODE", LedgerModeInternal),
		PollInterval:  pi,
		SweepSpec:     getenv("SWEEP_SPEC", "@every 1m"),
		TLSCert:       os.Getenv("TLS_CERT"),
		TLSKey:        os.Getenv("TLS_KEY"),
	}
	if cfg.LedgerMode != LedgerModeInternal && cfg.LedgerMode != LedgerModeMirror {
		log.Fatalf("invalid LEDGER_MODE %q", cfg.LedgerMode)
	}
	if cfg.LedgerMode == LedgerModeMirror && cfg.RPCURL == "" {
		log.Fatalf("LEDGER_MODE=mirror requires RPC_URL")
	}
	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		log.Fatalf("TLS_CERT and TLS_KEY must be set together")
	}
	return cfg
}
