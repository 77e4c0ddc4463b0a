package config

import "time"

// Server
const (
	ServerReadTimeout  = 30 * time.Second
	ServerWriteTimeout = 60 * time.Second
	ShutdownTimeout    = 10 * time.Second
)

// Explorer
const (
	ExplorerRequestTimeout = 15 * time.Second
	RetryMaxAttempts       = 3
	RetryBaseDelay         = 1 * time.Second

	CircuitBreakerThreshold   = 5
	CircuitBreakerCooldown    = 30 * time.Second
	CircuitBreakerHalfOpenMax = 1
)

// Reconciler
const (
	DepositTxPageSize = 25
)

// Logging
const (
	LogMaxAgeDays = 30
)
