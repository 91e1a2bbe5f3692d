package service

import (
	"context"
	"sync"
	"time"

	"todo-client/internal/domain"
	"todo-client/internal/session"
)

type fakeTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped int
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }

func (f *fakeTicker) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped++
}

func (f *fakeTicker) stops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

// newFakeTickers devuelve un TickerFunc cuyos tickers comparten el canal ticks.
func newFakeTickers() (TickerFunc, chan time.Time, func() []*fakeTicker) {
	ticks := make(chan time.Time)
	var (
		mu      sync.Mutex
		created []*fakeTicker
	)
	fn := func(time.Duration) Ticker {
		t := &fakeTicker{ch: ticks}
		mu.Lock()
		created = append(created, t)
		mu.Unlock()
		return t
	}
	all := func() []*fakeTicker {
		mu.Lock()
		defer mu.Unlock()
		return append([]*fakeTicker(nil), created...)
	}
	return fn, ticks, all
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []domain.Notice
}

func (r *recordingNotifier) Notify(n domain.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingNotifier) all() []domain.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notice(nil), r.notices...)
}

func (r *recordingNotifier) last() (domain.Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return domain.Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

type recordingNavigator struct {
	mu     sync.Mutex
	routes []domain.Route
}

func (r *recordingNavigator) Navigate(route domain.Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

func (r *recordingNavigator) all() []domain.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Route(nil), r.routes...)
}

type staticIdentity struct {
	identity domain.Identity
	err      error
}

func (s staticIdentity) CurrentIdentity(context.Context) (domain.Identity, error) {
	return s.identity, s.err
}

type mockSession struct {
	mu       sync.Mutex
	token    string
	saveErr  error
	identity domain.Identity
	cleared  int
}

func (m *mockSession) CurrentIdentity(context.Context) (domain.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return domain.Identity{}, session.ErrMissingCredential
	}
	return m.identity, nil
}

func (m *mockSession) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.token = token
	return nil
}

func (m *mockSession) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.cleared++
	return nil
}
