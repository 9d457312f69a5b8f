package browser

import (
	"fmt"
	"sync"
	"time"

	"github.com/quantfold/scout/pkg/logging"
)

// Session owns one browser driver, the currently active page, and the ref
// table produced by the most recent snapshot. All driver resources are
// created lazily by ensure and released only by Teardown.
//
// Callers are expected to issue actions one at a time; the mutex exists so
// that two first actions racing on an uninitialized session converge on a
// single browser launch rather than two.
type Session struct {
	id      string
	factory DriverFactory
	opts    SessionOptions
	logger  *logging.Logger

	mu       sync.Mutex
	state    SessionState
	driver   Driver
	active   Page
	pages    []Page
	provider SnapshotProvider
	refs     map[string]RefEntry
}

// NewSession creates an uninitialized session. No browser is launched until
// the first action calls ensure.
func NewSession(id string, factory DriverFactory, opts SessionOptions, logger *logging.Logger) *Session {
	if opts.SnapshotMaxChars <= 0 {
		opts.SnapshotMaxChars = DefaultSnapshotMaxChars
	}
	return &Session{
		id:      id,
		factory: factory,
		opts:    opts,
		logger:  logger,
		state:   StateUninitialized,
		refs:    make(map[string]RefEntry),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ensure returns the active page, launching the browser and opening a page
// if none exist. Repeated calls on an active session return the same page
// with no side effects. The lock is held across the launch so concurrent
// first calls serialize on one initialization.
func (s *Session) ensure() (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateActive && s.active != nil {
		return s.active, nil
	}

	driver, err := s.factory()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	page, err := driver.NewPage()
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	s.driver = driver
	s.active = page
	s.pages = []Page{page}
	s.refs = make(map[string]RefEntry)
	s.state = StateActive

	// Pick the snapshot provider once, based on what the driver supports.
	if driver.SupportsScriptedSnapshot() {
		s.provider = scriptedProvider{}
	} else {
		s.provider = ariaProvider{}
	}

	if s.logger != nil {
		s.logger.Infof("session %s: browser launched", s.id)
	}
	return page, nil
}

// openPage opens an additional page in the same browsing context and makes
// it the active page. Previously opened pages stay open.
func (s *Session) openPage() (Page, error) {
	if _, err := s.ensure(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	page, err := s.driver.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	s.pages = append(s.pages, page)
	s.active = page
	return page, nil
}

// SetActive points the active-page reference at the given page without
// closing the previous one.
func (s *Session) SetActive(page Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = page
}

// Pages returns all pages the session has opened, in creation order.
func (s *Session) Pages() []Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Page, len(s.pages))
	copy(out, s.pages)
	return out
}

// Teardown closes the browser, clears the active-page pointer, and clears
// the ref table. Calling it on an uninitialized or already-closed session
// is a no-op success.
func (s *Session) Teardown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		s.state = StateClosed
		return nil
	}

	var err error
	if s.driver != nil {
		err = s.driver.Close()
	}

	s.driver = nil
	s.active = nil
	s.pages = nil
	s.provider = nil
	s.refs = make(map[string]RefEntry)
	s.state = StateClosed

	if s.logger != nil {
		s.logger.Infof("session %s: browser closed", s.id)
	}

	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}

// replaceRefs swaps in a freshly built ref table, discarding the previous
// one entirely. Only the snapshot capture path calls this.
func (s *Session) replaceRefs(refs map[string]RefEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs = refs
}

// Refs returns a copy of the current ref table.
func (s *Session) Refs() map[string]RefEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]RefEntry, len(s.refs))
	for id, entry := range s.refs {
		out[id] = entry
	}
	return out
}

// resolve converts a ref id into a target descriptor against the current
// ref table.
func (s *Session) resolve(refID string) TargetDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ResolveRef(refID, s.refs)
}

// settle waits for network activity to go idle. The wait is advisory: the
// primary operation already succeeded, so an expired wait is reported as
// false rather than surfaced as an error.
func settle(page Page, timeout time.Duration) bool {
	return page.WaitForNetworkIdle(timeout) == nil
}
