package session

import "context"

// Navigator is the page surface the monitor drives.
type Navigator interface {
	Redirect(to string)
	ShowIdentity(id *Identity)
}

// Initializer starts the one data component of a page for the given identity.
type Initializer func(ctx context.Context, id *Identity)

// Monitor applies the route guard to every session event of one page view.
type Monitor struct {
	page         Page
	nav          Navigator
	initializers map[Page]Initializer
}

func NewMonitor(page Page, nav Navigator, initializers map[Page]Initializer) *Monitor {
	return &Monitor{page: page, nav: nav, initializers: initializers}
}

// Handle processes one session event and reports whether the event redirected.
func (m *Monitor) Handle(ctx context.Context, id *Identity) bool {
	d := Decide(m.page, id)
	if d.Redirect != "" {
		m.nav.Redirect(d.Redirect)
		return true
	}

	m.nav.ShowIdentity(id)
	if d.Init == "" {
		return false
	}
	if init, ok := m.initializers[d.Init]; ok {
		init(ctx, id)
	}
	return false
}

// Run consumes the stream until it closes or ctx ends. There is no retry: a
// stream that never fires leaves the page unresolved.
func (m *Monitor) Run(ctx context.Context, changes <-chan *Identity) {
	for {
		select {
		case <-ctx.Done():
			return
		case id, ok := <-changes:
			if !ok {
				return
			}
			m.Handle(ctx, id)
		}
	}
}
