// File: internal/nav/machine.go
package nav

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"quran_app_backend/internal/config"
	"quran_app_backend/internal/session"
)

// Route is a top-level screen of the application.
type Route string

const (
	RouteSplash         Route = "Splash"
	RouteLogin          Route = "Login"
	RouteSignUp         Route = "SignUp"
	RouteForgotPassword Route = "ForgotPassword"
	RouteMainApp        Route = "MainApp"
)

// unauthenticated reports whether r belongs to the signed-out flow, where
// explicit navigation intents are honored.
func unauthenticated(r Route) bool {
	switch r {
	case RouteLogin, RouteSignUp, RouteForgotPassword:
		return true
	}
	return false
}

// Machine derives the active route from the session state, the splash
// sequence, and the user's last navigation intent within the signed-out flow.
// The route is a pure function of those inputs, recomputed on every change:
//
//	identity present          -> MainApp
//	resolving or splash busy  -> Splash
//	otherwise                 -> the selected signed-out screen
//
// A session appearing mid-splash wins immediately; the splash never delays an
// already restored session. Navigation intents outside the signed-out flow are
// ignored, so screens cannot route around the session state.
type Machine struct {
	mu          sync.Mutex
	session     session.State
	splashDone  bool
	unauthRoute Route
	route       Route

	listeners map[int]func(Route)
	order     []int
	nextID    int

	store          *session.Store
	splashDuration time.Duration
	unsubscribe    func()
	splashTimer    *time.Timer
	logger         *zap.Logger
}

func NewMachine(store *session.Store, cfg *config.Config, logger *zap.Logger) *Machine {
	m := &Machine{
		session:        store.Snapshot(),
		unauthRoute:    RouteLogin,
		route:          RouteSplash,
		listeners:      make(map[int]func(Route)),
		store:          store,
		splashDuration: cfg.SplashDuration,
		logger:         logger.Named("NavMachine"),
	}
	return m
}

// Start begins the splash timer and subscribes to session changes. The splash
// holds until both the timer fires and the initial resolution completes,
// unless an identity arrives first.
func (m *Machine) Start() {
	m.unsubscribe = m.store.Subscribe(func(state session.State) {
		m.mu.Lock()
		previous := m.session
		m.session = state
		if previous.Identity != nil && state.Identity == nil {
			// Session ended, land back on the sign-in screen.
			m.unauthRoute = RouteLogin
		}
		m.mu.Unlock()
		m.recompute()
	})

	m.splashTimer = time.AfterFunc(m.splashDuration, func() {
		m.mu.Lock()
		m.splashDone = true
		m.mu.Unlock()
		m.recompute()
	})
}

// Stop cancels the splash timer and detaches from the session store.
func (m *Machine) Stop() {
	if m.splashTimer != nil {
		m.splashTimer.Stop()
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Navigate requests a screen change within the signed-out flow. Intents are
// honored only between Login, SignUp and ForgotPassword; anything else is
// ignored and logged.
func (m *Machine) Navigate(target Route) {
	if !unauthenticated(target) {
		m.logger.Warn("Ignoring navigation intent to gated route", zap.String("route", string(target)))
		return
	}

	m.mu.Lock()
	if m.session.Identity != nil {
		m.mu.Unlock()
		m.logger.Warn("Ignoring signed-out navigation while authenticated", zap.String("route", string(target)))
		return
	}
	m.unauthRoute = target
	m.mu.Unlock()
	m.recompute()
}

// Subscribe registers a listener invoked whenever the active route changes.
// It returns an unsubscribe handle.
func (m *Machine) Subscribe(fn func(Route)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.order = append(m.order, id)
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
		for i, oid := range m.order {
			if oid == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
}

// Route returns the currently active route.
func (m *Machine) Route() Route {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.route
}

func (m *Machine) derive() Route {
	if m.session.Identity != nil {
		return RouteMainApp
	}
	if m.session.Resolving || !m.splashDone {
		return RouteSplash
	}
	return m.unauthRoute
}

// recompute derives the route from the current inputs and notifies listeners
// only when it actually changed.
func (m *Machine) recompute() {
	m.mu.Lock()
	next := m.derive()
	if next == m.route {
		m.mu.Unlock()
		return
	}
	from := m.route
	m.route = next
	fns := make([]func(Route), 0, len(m.order))
	for _, id := range m.order {
		if fn, ok := m.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	m.mu.Unlock()

	m.logger.Info("Route changed", zap.String("from", string(from)), zap.String("to", string(next)))
	for _, fn := range fns {
		fn(next)
	}
}
