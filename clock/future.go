package clock

import "fmt"

// Future is a deferred result resolved exactly once on the game loop.
type Future struct {
	done    bool
	err     error
	waiters []func(error)
}

func NewFuture() *Future {
	return &Future{}
}

// Resolved returns a future that is already complete.
func Resolved(err error) *Future {
	return &Future{done: true, err: err}
}

// Resolve completes the future. Later calls are ignored and return false.
func (f *Future) Resolve(err error) bool {
	if f == nil || f.done {
		return false
	}
	f.done = true
	f.err = err
	waiters := f.waiters
	f.waiters = nil
	for _, fn := range waiters {
		fn(err)
	}
	return true
}

func (f *Future) Done() bool {
	return f == nil || f.done
}

func (f *Future) Err() error {
	if f == nil {
		return nil
	}
	return f.err
}

// Then registers fn to run on completion, immediately if already done.
func (f *Future) Then(fn func(error)) {
	if fn == nil {
		return
	}
	if f == nil {
		fn(nil)
		return
	}
	if f.done {
		fn(f.err)
		return
	}
	f.waiters = append(f.waiters, fn)
}

// Step is one suspension point of a sequence. Run may return nil when the
// step completes synchronously.
type Step struct {
	Name string
	Run  func() *Future
}

// Chain runs steps one after another, each starting once the previous
// future resolves. The first error or panic stops the chain and resolves the
// returned future with that error.
func Chain(steps ...Step) *Future {
	out := NewFuture()
	runStep(steps, 0, out)
	return out
}

func runStep(steps []Step, i int, out *Future) {
	if i >= len(steps) {
		out.Resolve(nil)
		return
	}
	step := steps[i]
	f, err := invoke(step)
	if err != nil {
		out.Resolve(err)
		return
	}
	f.Then(func(err error) {
		if err != nil {
			out.Resolve(fmt.Errorf("%s: %w", step.Name, err))
			return
		}
		runStep(steps, i+1, out)
	})
}

func invoke(step Step) (f *Future, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", step.Name, r)
		}
	}()
	if step.Run == nil {
		return nil, nil
	}
	return step.Run(), nil
}
