package browser

import "time"

// Driver abstracts the browser automation backend. It owns one browser
// process and one browsing context; pages opened through it share that
// context so cookies and storage carry across.
type Driver interface {
	// NewPage opens a fresh page in the driver's browsing context.
	NewPage() (Page, error)

	// SupportsScriptedSnapshot reports whether pages from this driver can
	// produce the ref-annotated accessibility snapshot via injected script.
	// Drivers that cannot fall back to the generic ARIA serialization.
	SupportsScriptedSnapshot() bool

	// Close shuts down the browser, cascading closure of all pages.
	Close() error
}

// DriverFactory launches a driver on demand. Sessions hold a factory so the
// browser process is only started by the first action that needs a page.
type DriverFactory func() (Driver, error)

// Page is one browser tab/page owned by a Driver.
type Page interface {
	// Navigate loads the URL and waits for network idle, bounded by timeout.
	Navigate(url string, timeout time.Duration) error

	// URL returns the page's current URL.
	URL() string

	// Title returns the page's current title.
	Title() (string, error)

	// ScriptedSnapshot produces the ref-annotated accessibility tree via
	// injected script, tagging each referenced element for raw-ref lookup.
	// Only valid when the driver reports SupportsScriptedSnapshot.
	ScriptedSnapshot(timeout time.Duration) (string, error)

	// AriaSnapshot serializes the document's ARIA tree in the same
	// line-based format, without ref markers or element tagging.
	AriaSnapshot(timeout time.Duration) (string, error)

	// ByRoleName builds a locator for elements with the given role. When
	// hasName is true the accessible name must match name exactly.
	ByRoleName(role, name string, hasName bool) Target

	// ByRawRef builds a locator addressing the element tagged with the
	// given ref id by the most recent scripted snapshot. The locator only
	// finds an element while that tagging is still live on the page.
	ByRawRef(id string) Target

	// Press sends a key event to the page-level keyboard focus.
	Press(key string) error

	// Wheel scrolls the viewport by the given deltas.
	Wheel(dx, dy float64) error

	// WaitForNetworkIdle blocks until outstanding network activity settles
	// or the timeout expires, returning an error on expiry.
	WaitForNetworkIdle(timeout time.Duration) error

	// Content returns the page's full HTML.
	Content() (string, error)

	// Close closes this page only.
	Close() error
}

// Target is a resolved element locator that interactions run against.
type Target interface {
	// Nth narrows the locator to the zero-based index among its matches.
	Nth(index int) Target

	// Click clicks the element, bounded by timeout.
	Click(timeout time.Duration) error

	// Fill replaces the element's content with text, bounded by timeout.
	Fill(text string, timeout time.Duration) error

	// Hover hovers the element, bounded by timeout.
	Hover(timeout time.Duration) error
}
