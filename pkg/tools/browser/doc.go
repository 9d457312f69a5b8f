// Package browser implements Scout's browser automation tools.
//
// A Session owns one browser driver, an active page, and the ref table
// built from the most recent accessibility snapshot. Snapshots serialize
// the page's accessibility tree into an indented line format where each
// referenceable node carries an opaque marker such as [ref=e7]. Actions
// (click, type, hover, ...) address elements through those refs: a ref
// still present in the table resolves to a role/name locator, a stale ref
// falls back to the driver's own element tracking.
//
// Sessions are created lazily by the first action that needs a page and
// torn down only by the close tool. The Manager keys sessions by id so
// multiple independent browsing sessions can coexist.
package browser
