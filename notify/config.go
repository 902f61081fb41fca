/*
 * Copyright (c) 2026 frozensunq contributors
 */
package notify

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the tunables spec §9 asks to be passed at construction
// rather than kept as process-wide globals (MAX_NOTIFY_NUM, MAX_TRY,
// INITIAL_TIMEOUT in the source). Validated with
// github.com/go-playground/validator/v10, the library the teacher
// uses for its own zone/config structs in tdns/config.go.
type Config struct {
	// MaxNotifyNum caps concurrent in-flight zones. Default 16.
	MaxNotifyNum int `mapstructure:"max_notify_num" validate:"gte=1,lte=4096"`
	// MaxTry is the number of retries per target after the first send
	// (so a target sees MaxTry+1 total attempts). Default 5.
	MaxTry int `mapstructure:"max_try" validate:"gte=0,lte=32"`
	// InitialTimeout is the first retry deadline; backoff doubles it
	// on every subsequent retry. Default 2s.
	InitialTimeout time.Duration `mapstructure:"initial_timeout" validate:"gt=0"`
}

// DefaultConfig returns spec §5's stated defaults: MAX_NOTIFY_NUM=16,
// MAX_TRY=5, INITIAL_TIMEOUT=2s.
func DefaultConfig() Config {
	return Config{
		MaxNotifyNum:   16,
		MaxTry:         5,
		InitialTimeout: 2 * time.Second,
	}
}

// Validate checks the struct tags above and reports the first
// violation with a field-qualified message.
func (c Config) Validate() error {
	return validator.New().Struct(c)
}

// backoff returns the relative deadline after the k-th send to a
// target: InitialTimeout * 2^k, matching spec §8's backoff law.
func (c Config) backoff(k int) time.Duration {
	return c.InitialTimeout * (1 << uint(k))
}
