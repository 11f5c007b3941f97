package resilience

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefaultExecutorConfig(t *testing.T) {
	config := DefaultExecutorConfig()

	if config.MaxConcurrent != 10 {
		t.Errorf("MaxConcurrent = %d, want 10", config.MaxConcurrent)
	}
	if config.CircuitBreakerThreshold != 5 {
		t.Errorf("CircuitBreakerThreshold = %d, want 5", config.CircuitBreakerThreshold)
	}
	if config.RetryMaxAttempts != 3 {
		t.Errorf("RetryMaxAttempts = %d, want 3", config.RetryMaxAttempts)
	}
	if config.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", config.Timeout)
	}
}

func TestExecutor_Execute_Success(t *testing.T) {
	executor := NewExecutor[[]string](DefaultExecutorConfig())

	got, err := executor.Execute(context.Background(), func(context.Context) ([]string, error) {
		return []string{"at robot dock"}, nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(got) != 1 || got[0] != "at robot dock" {
		t.Errorf("Execute() = %v", got)
	}
}

func TestExecutor_Execute_RetriesTransientFailure(t *testing.T) {
	executor := NewExecutorWithOptions[int](
		WithRetryAttempts(3),
		WithRetryDelay(time.Millisecond),
	)

	var calls atomic.Int32
	got, err := executor.Execute(context.Background(), func(context.Context) (int, error) {
		if calls.Add(1) < 2 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got != 42 {
		t.Errorf("Execute() = %d, want 42", got)
	}
	if calls.Load() < 2 {
		t.Errorf("should have retried, got %d calls", calls.Load())
	}
}

func TestExecutor_Execute_PersistentFailure(t *testing.T) {
	executor := NewExecutorWithOptions[int](
		WithRetryAttempts(2),
		WithRetryDelay(time.Millisecond),
	)

	var calls atomic.Int32
	_, err := executor.Execute(context.Background(), func(context.Context) (int, error) {
		calls.Add(1)
		return 0, errors.New("agent unavailable")
	})
	if err == nil {
		t.Fatal("Execute() expected error")
	}
	if calls.Load() > 2 {
		t.Errorf("calls = %d, want at most 2", calls.Load())
	}
}

func TestExecutor_Execute_Timeout(t *testing.T) {
	executor := NewExecutorWithOptions[int](
		WithTimeout(10*time.Millisecond),
		WithRetryAttempts(1),
	)

	_, err := executor.Execute(context.Background(), func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	if err == nil {
		t.Fatal("Execute() expected timeout error")
	}
}

func TestExecutor_CircuitBreakerState(t *testing.T) {
	executor := NewExecutor[int](DefaultExecutorConfig())
	if state := executor.CircuitBreakerState(); state.String() != "closed" {
		t.Errorf("Initial CircuitBreakerState() = %v, want closed", state)
	}
}

func TestExecutor_NegativeConfig(t *testing.T) {
	executor := NewExecutor[int](ExecutorConfig{
		MaxConcurrent:           -1,
		CircuitBreakerThreshold: -1,
		CircuitBreakerTimeout:   30 * time.Second,
		RetryMaxAttempts:        -1,
	})

	got, err := executor.Execute(context.Background(), func(context.Context) (int, error) {
		return 1, nil
	})
	if err != nil {
		t.Errorf("Execute() with negative config error = %v", err)
	}
	if got != 1 {
		t.Errorf("Execute() = %d, want 1", got)
	}
}

func TestOptions(t *testing.T) {
	config := DefaultExecutorConfig()
	for _, opt := range []Option{
		WithMaxConcurrent(2),
		WithCircuitBreakerThreshold(7),
		WithCircuitBreakerTimeout(time.Second),
		WithRetryAttempts(4),
		WithRetryDelay(time.Millisecond),
		WithBackoffMultiplier(1.5),
		WithTimeout(time.Minute),
	} {
		opt(&config)
	}

	want := ExecutorConfig{
		MaxConcurrent:           2,
		CircuitBreakerThreshold: 7,
		CircuitBreakerTimeout:   time.Second,
		RetryMaxAttempts:        4,
		RetryInitialDelay:       time.Millisecond,
		RetryBackoffMultiplier:  1.5,
		Timeout:                 time.Minute,
	}
	if config != want {
		t.Errorf("config = %+v, want %+v", config, want)
	}
}
