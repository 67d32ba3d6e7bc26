package session

import "sync"

// Provider is the session stream of one page view. OnSessionChange delivers the
// current value immediately and then every change, in order.
type Provider struct {
	mu        sync.Mutex
	current   *Identity
	started   bool
	listeners []chan *Identity
	closed    bool
}

func NewProvider() *Provider {
	return &Provider{}
}

// Current is a synchronous snapshot; nil when signed out.
func (p *Provider) Current() *Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Set publishes a new session value (nil signs out). The first call also
// resolves views that subscribed before any value was known.
func (p *Provider) Set(id *Identity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.current = id
	p.started = true
	for _, l := range p.listeners {
		push(l, id)
	}
}

// OnSessionChange returns a channel of session values. The channel is closed by Close.
// Until the first Set nothing is delivered, mirroring a provider that has not answered yet.
func (p *Provider) OnSessionChange() <-chan *Identity {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan *Identity, 1)
	if p.closed {
		close(ch)
		return ch
	}
	if p.started {
		ch <- p.current
	}
	p.listeners = append(p.listeners, ch)
	return ch
}

func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for _, l := range p.listeners {
		close(l)
	}
	p.listeners = nil
}

// push keeps only the newest pending value for a slow listener.
func push(ch chan *Identity, id *Identity) {
	select {
	case ch <- id:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- id
	}
}
