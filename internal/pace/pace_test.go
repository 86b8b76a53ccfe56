package pace

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name     string
		min, max time.Duration
		wantErr  bool
	}{
		{"valid range", time.Second, 5 * time.Second, false},
		{"equal bounds", 3 * time.Second, 3 * time.Second, false},
		{"zero range", 0, 0, false},
		{"negative min", -time.Second, time.Second, true},
		{"max below min", 5 * time.Second, time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%v, %v) error = %v, wantErr %v", tt.min, tt.max, err, tt.wantErr)
			}
		})
	}
}

func TestDelayBounds(t *testing.T) {
	p, err := New(2*time.Second, 7*time.Second)
	if err != nil {
		t.Fatal(err)
	}

	for range 1000 {
		d := p.delay()
		if d < 2*time.Second || d > 7*time.Second {
			t.Fatalf("delay %v outside [2s, 7s]", d)
		}
	}
}

func TestDelayFixed(t *testing.T) {
	p, err := New(3*time.Second, 3*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if d := p.delay(); d != 3*time.Second {
		t.Errorf("delay = %v, want 3s", d)
	}
}

func TestRunSleepsBeforeOp(t *testing.T) {
	p, err := New(time.Second, 2*time.Second)
	if err != nil {
		t.Fatal(err)
	}

	var slept time.Duration
	opRan := false
	p.sleep = func(_ context.Context, d time.Duration) error {
		if opRan {
			t.Error("sleep ran after op")
		}
		slept = d
		return nil
	}

	err = p.Run(context.Background(), func(context.Context) error {
		opRan = true
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !opRan {
		t.Error("op never ran")
	}
	if slept < time.Second || slept > 2*time.Second {
		t.Errorf("slept %v, outside configured range", slept)
	}
}

func TestRunCanceledBeforeOp(t *testing.T) {
	p, err := New(time.Second, time.Second)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = p.Run(ctx, func(context.Context) error {
		t.Error("op ran despite canceled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunPropagatesOpError(t *testing.T) {
	p, err := New(0, 0)
	if err != nil {
		t.Fatal(err)
	}

	sentinel := errors.New("boom")
	if err := p.Run(context.Background(), func(context.Context) error { return sentinel }); !errors.Is(err, sentinel) {
		t.Errorf("Run() error = %v, want sentinel", err)
	}
}

func TestRunValue(t *testing.T) {
	p, err := New(0, 0)
	if err != nil {
		t.Fatal(err)
	}

	got, err := RunValue(context.Background(), p, func(context.Context) (int, error) {
		return 42, nil
	})
	if err != nil || got != 42 {
		t.Errorf("RunValue() = %d, %v, want 42, nil", got, err)
	}

	sentinel := errors.New("boom")
	_, err = RunValue(context.Background(), p, func(context.Context) (int, error) {
		return 0, sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("RunValue() error = %v, want sentinel", err)
	}
}
