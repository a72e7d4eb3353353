package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	OracleTimeout      = 30 * time.Second
	ProbeTimeout       = 5 * time.Second
	RequestTimeout     = 2 * time.Minute
)

const (
	OracleBackoffBase = 500 * time.Millisecond
	OracleBackoffMax  = 8 * time.Second
)

const (
	SteamMaxConnsPerHost = 16
	SteamMaxResponseSize = 4 << 20
)

const (
	ShutdownTimeout   = 5 * time.Second
	ReadHeaderTimeout = 10 * time.Second
)
