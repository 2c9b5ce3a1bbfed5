/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package dispatch_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"chainguard.dev/mcqqc/dispatch"
	"chainguard.dev/mcqqc/evaluator"
	"github.com/google/go-cmp/cmp"
)

// evalFunc adapts a function to evaluator.Interface.
type evalFunc func(ctx context.Context, prompt string) (string, error)

func (f evalFunc) Evaluate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func prompts(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("p%d", i)
	}
	return out
}

func mustNew(t *testing.T, ev evaluator.Interface, opts ...dispatch.Option) *dispatch.Dispatcher {
	t.Helper()
	d, err := dispatch.New(ev, opts...)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return d
}

func TestDispatch_IndexAlignedNotCompletionOrdered(t *testing.T) {
	t.Parallel()

	lastDone := make(chan struct{})
	var (
		mu    sync.Mutex
		order []string
	)
	ev := evalFunc(func(_ context.Context, prompt string) (string, error) {
		switch prompt {
		case "p0":
			// The first slot cannot finish before the last one has.
			<-lastDone
		case "p9":
			defer close(lastDone)
		}
		mu.Lock()
		order = append(order, prompt)
		mu.Unlock()
		return "reply-" + prompt, nil
	})

	replies := mustNew(t, ev).Dispatch(context.Background(), prompts(10))

	if len(replies) != 10 {
		t.Fatalf("expected 10 replies, got %d", len(replies))
	}
	for i, r := range replies {
		if r.Err != nil {
			t.Errorf("slot %d: unexpected error %v", i, r.Err)
		}
		if want := fmt.Sprintf("reply-p%d", i); r.Text != want {
			t.Errorf("slot %d: got %q, want %q", i, r.Text, want)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	pos := make(map[string]int, len(order))
	for i, p := range order {
		pos[p] = i
	}
	if pos["p9"] > pos["p0"] {
		t.Errorf("expected p9 to complete before p0, completion order was %v", order)
	}
}

func TestDispatch_PanicIsolatedToSlot(t *testing.T) {
	t.Parallel()

	ev := evalFunc(func(_ context.Context, prompt string) (string, error) {
		if prompt == "p4" {
			panic("kaboom")
		}
		return "ok-" + prompt, nil
	})

	replies := mustNew(t, ev).Dispatch(context.Background(), prompts(10))
	if len(replies) != 10 {
		t.Fatalf("expected 10 replies, got %d", len(replies))
	}

	var pe *dispatch.PanicError
	if !errors.As(replies[4].Err, &pe) {
		t.Fatalf("slot 4: expected PanicError, got %v", replies[4].Err)
	}
	if pe.Slot != 4 {
		t.Errorf("panic slot: got %d, want 4", pe.Slot)
	}
	if diff := cmp.Diff("Error: kaboom", replies[4].Text); diff != "" {
		t.Errorf("panic marker mismatch (-want +got):\n%s", diff)
	}

	for i, r := range replies {
		if i == 4 {
			continue
		}
		if r.Err != nil || r.Text != fmt.Sprintf("ok-p%d", i) {
			t.Errorf("slot %d: got %+v", i, r)
		}
	}
}

func TestDispatch_FailureIsolatedToSlot(t *testing.T) {
	t.Parallel()

	ev := evalFunc(func(_ context.Context, prompt string) (string, error) {
		if prompt == "p2" {
			return "", fmt.Errorf("%w: 500 internal", evaluator.ErrNoVerdict)
		}
		return prompt, nil
	})

	replies := mustNew(t, ev).Dispatch(context.Background(), prompts(5))
	if !errors.Is(replies[2].Err, evaluator.ErrNoVerdict) {
		t.Errorf("slot 2: expected ErrNoVerdict, got %v", replies[2].Err)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if replies[i].Err != nil {
			t.Errorf("slot %d: unexpected error %v", i, replies[i].Err)
		}
	}
}

func TestDispatch_RespectsConcurrencyLimit(t *testing.T) {
	t.Parallel()

	var current, peak atomic.Int32
	ev := evalFunc(func(_ context.Context, prompt string) (string, error) {
		n := current.Add(1)
		defer current.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return prompt, nil
	})

	replies := mustNew(t, ev, dispatch.WithConcurrency(3)).Dispatch(context.Background(), prompts(12))
	if len(replies) != 12 {
		t.Fatalf("expected 12 replies, got %d", len(replies))
	}
	if p := peak.Load(); p > 3 {
		t.Errorf("peak concurrency %d exceeds limit 3", p)
	}
}

func TestDispatch_MaxInflightSharedAcrossDispatches(t *testing.T) {
	t.Parallel()

	var current, peak atomic.Int32
	ev := evalFunc(func(_ context.Context, prompt string) (string, error) {
		n := current.Add(1)
		defer current.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return prompt, nil
	})
	d := mustNew(t, ev, dispatch.WithMaxInflight(4))

	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dispatch(context.Background(), prompts(10))
		}()
	}
	wg.Wait()

	if p := peak.Load(); p > 4 {
		t.Errorf("peak in-flight %d exceeds process limit 4", p)
	}
}

func TestDispatch_IgnoresCallerCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ev := evalFunc(func(ctx context.Context, prompt string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return prompt, nil
	})

	for i, r := range mustNew(t, ev).Dispatch(ctx, prompts(10)) {
		if r.Err != nil {
			t.Errorf("slot %d: call saw cancellation: %v", i, r.Err)
		}
	}
}

func TestDispatch_Empty(t *testing.T) {
	t.Parallel()
	ev := evalFunc(func(context.Context, string) (string, error) {
		t.Error("evaluator should not be called")
		return "", nil
	})
	if got := mustNew(t, ev).Dispatch(context.Background(), nil); len(got) != 0 {
		t.Errorf("expected no replies, got %d", len(got))
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()
	ev := evalFunc(func(context.Context, string) (string, error) { return "", nil })

	if _, err := dispatch.New(nil); err == nil {
		t.Error("expected error for nil evaluator")
	}
	if _, err := dispatch.New(ev, dispatch.WithConcurrency(0)); err == nil {
		t.Error("expected error for zero concurrency")
	}
	if _, err := dispatch.New(ev, dispatch.WithMaxInflight(-1)); err == nil {
		t.Error("expected error for negative in-flight limit")
	}
}
