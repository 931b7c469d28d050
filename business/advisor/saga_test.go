package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSagaRunsAllStepsInOrder(t *testing.T) {
	var trace []string
	step := func(name string) sagaStep {
		return sagaStep{
			name: name,
			run: func(ctx context.Context) error {
				trace = append(trace, "run "+name)
				return nil
			},
			compensate: func(ctx context.Context) error {
				trace = append(trace, "undo "+name)
				return nil
			},
		}
	}

	err := runWithCompensation(context.Background(), []sagaStep{step("a"), step("b"), step("c")})
	if err != nil {
		t.Fatal(err)
	}

	want := "run a,run b,run c"
	if got := strings.Join(trace, ","); got != want {
		t.Fatalf("trace = %q, want %q", got, want)
	}
}

func TestSagaCompensatesCompletedStepsInReverse(t *testing.T) {
	var trace []string
	boom := errors.New("boom")

	steps := []sagaStep{
		{
			name: "a",
			run: func(ctx context.Context) error {
				trace = append(trace, "run a")
				return nil
			},
			compensate: func(ctx context.Context) error {
				trace = append(trace, "undo a")
				return nil
			},
		},
		{
			name: "b",
			run: func(ctx context.Context) error {
				trace = append(trace, "run b")
				return nil
			},
			compensate: func(ctx context.Context) error {
				trace = append(trace, "undo b")
				return nil
			},
		},
		{
			name: "c",
			run: func(ctx context.Context) error {
				trace = append(trace, "run c")
				return boom
			},
			// the failed step itself is never compensated
			compensate: func(ctx context.Context) error {
				trace = append(trace, "undo c")
				return nil
			},
		},
	}

	err := runWithCompensation(context.Background(), steps)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if !strings.Contains(err.Error(), "c:") {
		t.Fatalf("error should name the failed step, got %q", err.Error())
	}

	want := "run a,run b,run c,undo b,undo a"
	if got := strings.Join(trace, ","); got != want {
		t.Fatalf("trace = %q, want %q", got, want)
	}
}

func TestSagaCompensatesOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	compensated := false
	steps := []sagaStep{
		{
			name: "create",
			run: func(ctx context.Context) error {
				return nil
			},
			compensate: func(ctx context.Context) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				compensated = true
				return nil
			},
		},
		{
			name: "attach",
			run: func(ctx context.Context) error {
				// caller gives up mid-saga
				cancel()
				return ctx.Err()
			},
		},
	}

	if err := runWithCompensation(ctx, steps); err == nil {
		t.Fatal("expected failure")
	}
	if !compensated {
		t.Fatal("compensation must run even after the request context is canceled")
	}
}

func TestSagaNilCompensateSkipped(t *testing.T) {
	boom := errors.New("boom")
	steps := []sagaStep{
		{
			name: "a",
			run:  func(ctx context.Context) error { return nil },
			// no compensate on purpose
		},
		{
			name: "b",
			run:  func(ctx context.Context) error { return boom },
		},
	}

	// must not panic
	if err := runWithCompensation(context.Background(), steps); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
