package browser

import "time"

// SessionState tracks the lifecycle of a browser session.
type SessionState int

const (
	// StateUninitialized means no browser has been launched yet.
	StateUninitialized SessionState = iota

	// StateActive means the browser is running and an active page exists.
	StateActive

	// StateClosed means the session was torn down explicitly.
	StateClosed
)

// RefEntry describes one referenceable node surfaced in a snapshot.
type RefEntry struct {
	// Role is the node's accessibility role ("button", "link", ...).
	Role string `json:"role"`

	// Name is the node's accessible name, empty when the snapshot line
	// carried no quoted name.
	Name string `json:"name,omitempty"`

	// Nth is the zero-based offset among nodes sharing the same role and
	// name. Zero means first match.
	Nth int `json:"nth,omitempty"`
}

// SnapshotResult is the outcome of serializing the accessibility tree.
type SnapshotResult struct {
	// Text is the serialized tree, possibly truncated.
	Text string

	// Truncated is true iff the tree exceeded the character limit.
	Truncated bool
}

// ActionRequest is the tagged union consumed by the act tool.
type ActionRequest struct {
	// Kind selects the interaction: click, type, press, hover, scroll, wait.
	Kind string

	// Ref addresses the target element for click, type, and hover.
	Ref string

	// Text is the replacement content for type.
	Text string

	// Key is the key to send for press (e.g. "Enter", "Escape").
	Key string

	// Direction is "up" or "down" for scroll; empty defaults to down.
	Direction string

	// TimeMs is the pause duration for wait; zero defaults to 2000.
	TimeMs int
}

// TargetStrategy selects how a ref is converted into a live element locator.
type TargetStrategy int

const (
	// TargetByRole locates the element by role and accessible name from
	// the current ref table.
	TargetByRole TargetStrategy = iota

	// TargetByRawRef addresses the element through the driver's own
	// tracking attribute, bypassing role and name. Used for refs that are
	// not in the current table.
	TargetByRawRef
)

// TargetDescriptor is the resolved addressing strategy for one ref.
type TargetDescriptor struct {
	Strategy TargetStrategy

	// Role, Name, and Nth are set for TargetByRole.
	Role string
	Name string
	Nth  int

	// RawRef is set for TargetByRawRef.
	RawRef string
}

// SessionOptions configures a browser session.
type SessionOptions struct {
	// SnapshotMaxChars caps the snapshot text length; zero uses
	// DefaultSnapshotMaxChars.
	SnapshotMaxChars int
}

// Timeout tiers. Navigation and element interactions are hard bounds whose
// expiry is a reportable failure. Settle waits are advisory: they run after
// the primary operation already succeeded and their expiry is swallowed.
const (
	// NavigateTimeout bounds page loads for navigate and open.
	NavigateTimeout = 30 * time.Second

	// InteractTimeout bounds click, type (fill), and hover.
	InteractTimeout = 8 * time.Second

	// SettleShort is the advisory network-idle wait before snapshot and
	// read, and after press.
	SettleShort = 5 * time.Second

	// SettleAfterClick is the advisory network-idle wait after click.
	SettleAfterClick = 10 * time.Second

	// ScrollDelta is the fixed viewport scroll magnitude in pixels.
	ScrollDelta = 500

	// ScrollSettleDelay is the fixed pause after a scroll.
	ScrollSettleDelay = 500 * time.Millisecond

	// WaitDefaultMs and WaitMaxMs bound the wait action.
	WaitDefaultMs = 2000
	WaitMaxMs     = 10000

	// DefaultSnapshotMaxChars caps snapshot text when no explicit limit
	// is given.
	DefaultSnapshotMaxChars = 50000
)

// DefaultSessionID names the session used when a tool call does not pick one.
const DefaultSessionID = "default"
