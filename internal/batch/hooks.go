package batch

import "github.com/ormstarter/ormstarter/internal/registry"

// Hooks observe a batch run. Nil funcs are skipped.
type Hooks struct {
	Start func(d *registry.Descriptor)
	Done  func(o Outcome)
}

func (h Hooks) start(d *registry.Descriptor) {
	if h.Start != nil {
		h.Start(d)
	}
}

func (h Hooks) done(o Outcome) {
	if h.Done != nil {
		h.Done(o)
	}
}
