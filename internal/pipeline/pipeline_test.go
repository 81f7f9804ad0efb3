package pipeline

import (
	"context"
	"errors"
	"testing"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, run *Run) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, run *Run) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, run)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

// TestPipelineExecute tests step sequencing.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		mk := func(name string) *mockStep {
			return &mockStep{
				name: name,
				doFunc: func(_ context.Context, _ *Run) error {
					order = append(order, name)
					return nil
				},
			}
		}

		p := New()
		p.AddSteps(mk("first"), mk("second"), mk("third"))

		run := &Run{}
		if err := p.Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"first", "second", "third"}
		for i, name := range want {
			if order[i] != name {
				t.Errorf("order[%d] = %q, want %q", i, order[i], name)
			}
			if run.PerformedSteps[i] != name {
				t.Errorf("PerformedSteps[%d] = %q, want %q", i, run.PerformedSteps[i], name)
			}
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		failing := &mockStep{
			name:   "failing",
			doFunc: func(_ context.Context, _ *Run) error { return boom },
		}
		after := &mockStep{name: "after"}

		p := New()
		p.AddSteps(failing, after)

		run := &Run{}
		err := p.Execute(context.Background(), run)
		if !errors.Is(err, boom) {
			t.Errorf("expected boom, got %v", err)
		}
		if after.callCount != 0 {
			t.Error("expected later steps to be skipped")
		}
		if !errors.Is(run.Err, boom) {
			t.Error("expected error recorded on the run")
		}
	})

	t.Run("cancelled context stops before the next step", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		first := &mockStep{
			name: "first",
			doFunc: func(_ context.Context, _ *Run) error {
				cancel()
				return nil
			},
		}
		second := &mockStep{name: "second"}

		p := New()
		p.AddSteps(first, second)

		err := p.Execute(ctx, &Run{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if second.callCount != 0 {
			t.Error("expected second step to be skipped")
		}
	})

	t.Run("StepNames reflects execution order", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddSteps(&mockStep{name: "a"}, &mockStep{name: "b"})

		names := p.StepNames()
		if len(names) != 2 || names[0] != "a" || names[1] != "b" {
			t.Errorf("StepNames = %v", names)
		}
	})
}
