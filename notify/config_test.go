/*
 * Copyright (c) 2026 frozensunq contributors
 */
package notify

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.MaxNotifyNum != 16 || c.MaxTry != 5 || c.InitialTimeout != 2*time.Second {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestConfig_BackoffLaw(t *testing.T) {
	c := Config{InitialTimeout: 2 * time.Second}
	cases := []struct {
		k    int
		want time.Duration
	}{
		{0, 2 * time.Second},
		{1, 4 * time.Second},
		{2, 8 * time.Second},
		{3, 16 * time.Second},
		{4, 32 * time.Second},
	}
	for _, tc := range cases {
		if got := c.backoff(tc.k); got != tc.want {
			t.Fatalf("backoff(%d) = %v, want %v", tc.k, got, tc.want)
		}
	}
}

func TestConfig_ValidateRejectsZeroMaxNotifyNum(t *testing.T) {
	c := DefaultConfig()
	c.MaxNotifyNum = 0
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for MaxNotifyNum=0")
	}
}

func TestConfig_ValidateRejectsNonPositiveInitialTimeout(t *testing.T) {
	c := DefaultConfig()
	c.InitialTimeout = 0
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for InitialTimeout=0")
	}
}
