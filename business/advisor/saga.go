package advisor

import (
	"context"
	"fmt"

	"resellPilot/pkg/logger"
)

// sagaStep is one ordered step of a multi-step mutation. Compensate,
// when set, undoes a completed Run after a later step fails.
type sagaStep struct {
	name       string
	run        func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// runWithCompensation executes steps in order. On the first failure it
// runs the compensations of every completed step in reverse order and
// returns the failing step's error. Compensations run on a context
// detached from cancellation: a caller going away must not leave a
// partially committed entity behind.
func runWithCompensation(ctx context.Context, steps []sagaStep) error {
	done := make([]sagaStep, 0, len(steps))

	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			compCtx := context.WithoutCancel(ctx)

			for i := len(done) - 1; i >= 0; i-- {
				if done[i].compensate == nil {
					continue
				}
				if cerr := done[i].compensate(compCtx); cerr != nil {
					logger.Error("saga compensation failed", "step", done[i].name, "error", cerr)
				}
			}

			return fmt.Errorf("%s: %w", step.name, err)
		}

		done = append(done, step)
	}

	return nil
}
