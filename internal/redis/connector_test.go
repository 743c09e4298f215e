package redis

import (
	"context"
	"testing"
	"time"

	"github.com/MrSnakeDoc/newtab/internal/logger"
)

func validOptions() ConnectOptions {
	return ConnectOptions{
		Addr:           "127.0.0.1:1",
		ConnectTimeout: 50 * time.Millisecond,
		RetryInterval:  5 * time.Millisecond,
		MaxWait:        10 * time.Millisecond,
		PingTimeout:    10 * time.Millisecond,
		WarnThreshold:  2,
	}
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConnectOptions)
		wantErr bool
	}{
		{"valid", func(*ConnectOptions) {}, false},
		{"no connect timeout", func(o *ConnectOptions) { o.ConnectTimeout = 0 }, true},
		{"no retry interval", func(o *ConnectOptions) { o.RetryInterval = 0 }, true},
		{"no max wait", func(o *ConnectOptions) { o.MaxWait = -1 }, true},
		{"no ping timeout", func(o *ConnectOptions) { o.PingTimeout = 0 }, true},
		{"negative warn threshold", func(o *ConnectOptions) { o.WarnThreshold = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(&opts)
			err := validateOptions(opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewGivesUpAfterTimeout(t *testing.T) {
	start := time.Now()
	client, err := New(context.Background(), validOptions(), logger.NewNop())
	if err == nil {
		t.Fatal("expected an error connecting to a closed port")
	}
	if client != nil {
		t.Fatal("expected nil client on failure")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("connect did not respect ConnectTimeout, took %v", elapsed)
	}
}
