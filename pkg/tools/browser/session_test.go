package browser

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureIsIdempotent(t *testing.T) {
	launches := 0
	driver := newFakeDriver("")
	session := NewSession("test", driver.factory(&launches), SessionOptions{}, nil)

	first, err := session.ensure()
	require.NoError(t, err)
	second, err := session.ensure()
	require.NoError(t, err)

	assert.Same(t, first.(*fakePage), second.(*fakePage))
	assert.Equal(t, 1, launches)
	assert.Equal(t, StateActive, session.State())
}

func TestEnsureSingleFlight(t *testing.T) {
	var launches int
	var mu sync.Mutex
	driver := newFakeDriver("")
	factory := func() (Driver, error) {
		mu.Lock()
		launches++
		mu.Unlock()
		time.Sleep(20 * time.Millisecond) // widen the race window
		return driver, nil
	}

	session := NewSession("test", factory, SessionOptions{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := session.ensure()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, launches)
}

func TestTeardownIsIdempotent(t *testing.T) {
	driver := newFakeDriver("")
	session := NewSession("test", driver.factory(nil), SessionOptions{}, nil)

	// Teardown before any initialization is a no-op success.
	require.NoError(t, session.Teardown())
	assert.Equal(t, StateClosed, session.State())

	_, err := session.ensure()
	require.NoError(t, err)

	require.NoError(t, session.Teardown())
	assert.True(t, driver.closed)
	assert.Empty(t, session.Refs())

	// Closing again succeeds with no side effects.
	require.NoError(t, session.Teardown())
	assert.Equal(t, StateClosed, session.State())
}

func TestTeardownClearsRefTable(t *testing.T) {
	driver := newFakeDriver(`- link "Docs" [ref=e1]`)
	session := NewSession("test", driver.factory(nil), SessionOptions{}, nil)

	_, err := session.Snapshot(0)
	require.NoError(t, err)
	require.Len(t, session.Refs(), 1)

	require.NoError(t, session.Teardown())
	assert.Empty(t, session.Refs())

	// With the table gone, old refs resolve through the raw fallback.
	desc := session.resolve("e1")
	assert.Equal(t, TargetByRawRef, desc.Strategy)
}

func TestOpenPreservesPriorPages(t *testing.T) {
	driver := newFakeDriver("")
	session := NewSession("test", driver.factory(nil), SessionOptions{}, nil)

	_, err := session.Navigate("https://one.test")
	require.NoError(t, err)

	_, err = session.Open("https://two.test")
	require.NoError(t, err)

	pages := session.Pages()
	require.Len(t, pages, 2)

	first := pages[0].(*fakePage)
	second := pages[1].(*fakePage)

	assert.False(t, first.closed)
	assert.Equal(t, "https://one.test", first.URL())
	assert.Equal(t, "https://two.test", second.URL())

	// The active pointer moved to the new page.
	active, err := session.ensure()
	require.NoError(t, err)
	assert.Same(t, second, active.(*fakePage))
}

func TestManagerKeysSessionsByID(t *testing.T) {
	driver := newFakeDriver("")
	manager := NewManager(driver.factory(nil), SessionOptions{}, nil)

	a := manager.Session("a")
	b := manager.Session("b")
	assert.NotSame(t, a, b)
	assert.Same(t, a, manager.Session("a"))

	// Empty id maps to the default session.
	assert.Same(t, manager.Session(""), manager.Session(DefaultSessionID))
}
