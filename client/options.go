package client

import (
	"time"

	"go.uber.org/zap"
)

const (
	DefaultHost    = "127.0.0.1"
	DefaultPort    = 6379
	DefaultTimeout = 2000 * time.Millisecond
)

type Options struct {
	// Host of the server to connect to
	Host string

	// Port of the server to connect to
	Port int

	// Timeout bounds every operation on the connection: connecting,
	// sending a command, and receiving its complete reply
	Timeout time.Duration

	// Log receives connection lifecycle events. Defaults to a no-op
	// logger
	Log *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Host == "" {
		o.Host = DefaultHost
	}

	if o.Port == 0 {
		o.Port = DefaultPort
	}

	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}

	if o.Log == nil {
		o.Log = zap.NewNop()
	}

	return o
}
