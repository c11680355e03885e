package adapter

import (
	"iter"
	"sync"
)

// Params are the scalar generation parameters sent with every completion
type Params struct {
	Temperature       float64
	TopP              float64
	MaxLength         int
	RepetitionPenalty float64
}

// Request is a single completion call: one formatted prompt for one model
type Request struct {
	Model  string
	Prompt string
	Params Params
}

// Generation is the outcome of a completion call. It is either a failure with
// a reason (Err != nil, no fragments) or a lazy sequence of text fragments.
//
// Fragments can be ranged over once. A non-nil error in the sequence means the
// stream broke after it started; it is always the last element.
type Generation struct {
	fragments iter.Seq2[string, error]
	err       error
	closeOnce sync.Once
	closer    func()
}

// Succeeded wraps a fragment sequence. closer, if non-nil, releases the
// underlying stream and runs at most once.
func Succeeded(fragments iter.Seq2[string, error], closer func()) *Generation {
	return &Generation{fragments: fragments, closer: closer}
}

// Failed builds a generation that produced nothing
func Failed(err error) *Generation {
	return &Generation{err: err}
}

// FromStrings builds a successful generation over fixed fragments
func FromStrings(fragments ...string) *Generation {
	return Succeeded(func(yield func(string, error) bool) {
		for _, f := range fragments {
			if !yield(f, nil) {
				return
			}
		}
	}, nil)
}

// Err returns the failure reason, nil for a successful call
func (g *Generation) Err() error {
	return g.err
}

// Fragments returns the lazy fragment sequence. The stream is released when
// iteration ends, whether it ran to completion or stopped early.
func (g *Generation) Fragments() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if g.err != nil || g.fragments == nil {
			return
		}
		defer g.Close()
		for fragment, err := range g.fragments {
			if !yield(fragment, err) || err != nil {
				return
			}
		}
	}
}

// Close releases the stream of a generation that will not be consumed
func (g *Generation) Close() {
	g.closeOnce.Do(func() {
		if g.closer != nil {
			g.closer()
		}
	})
}
