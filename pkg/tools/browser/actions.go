package browser

import (
	"encoding/json"
	"strings"
	"time"
)

// Payload is the kind-specific body of an action result.
type Payload map[string]interface{}

const snapshotHint = "Use browser_snapshot to list interactive elements, then browser_act to interact with them."

// Navigate loads a URL in the active page, launching the session first if
// needed. The result carries only identity metadata, never page content.
func (s *Session) Navigate(url string) (Payload, error) {
	if url == "" {
		return nil, &MissingParameterError{Param: "url"}
	}

	page, err := s.ensure()
	if err != nil {
		return nil, err
	}

	if err := page.Navigate(url, NavigateTimeout); err != nil {
		return nil, &InteractionError{Action: "navigate", Err: err}
	}

	title, err := page.Title()
	if err != nil {
		title = ""
	}

	return Payload{
		"url":   page.URL(),
		"title": title,
		"hint":  snapshotHint,
	}, nil
}

// Open loads a URL in a new page within the same browsing context and makes
// it the active page. Previously opened pages stay open.
func (s *Session) Open(url string) (Payload, error) {
	if url == "" {
		return nil, &MissingParameterError{Param: "url"}
	}

	page, err := s.openPage()
	if err != nil {
		return nil, err
	}

	if err := page.Navigate(url, NavigateTimeout); err != nil {
		return nil, &InteractionError{Action: "open", Err: err}
	}

	title, err := page.Title()
	if err != nil {
		title = ""
	}

	return Payload{
		"url":   page.URL(),
		"title": title,
		"hint":  snapshotHint,
	}, nil
}

// Snapshot captures the accessibility tree, rebuilds the ref table from it,
// and returns the (possibly truncated) tree text together with the table.
// maxChars <= 0 uses the session's configured limit.
func (s *Session) Snapshot(maxChars int) (Payload, error) {
	page, err := s.ensure()
	if err != nil {
		return nil, err
	}

	settle(page, SettleShort)

	text, err := s.provider.Capture(page, InteractTimeout)
	if err != nil {
		return nil, &InteractionError{Action: "snapshot", Err: err}
	}

	// The table is fully replaced on every capture; refs from earlier
	// snapshots are stale from here on.
	refs := ParseSnapshot(text)
	s.replaceRefs(refs)

	if maxChars <= 0 {
		maxChars = s.opts.SnapshotMaxChars
	}
	result := Truncate(text, maxChars)

	title, err := page.Title()
	if err != nil {
		title = ""
	}

	return Payload{
		"url":       page.URL(),
		"title":     title,
		"snapshot":  result.Text,
		"truncated": result.Truncated,
		"refCount":  len(refs),
		"refs":      s.Refs(),
	}, nil
}

// Act validates and dispatches one interaction request against the active
// page. Required-field checks run before any driver call.
func (s *Session) Act(req ActionRequest) (Payload, error) {
	switch req.Kind {
	case "click":
		return s.actClick(req)
	case "type":
		return s.actType(req)
	case "press":
		return s.actPress(req)
	case "hover":
		return s.actHover(req)
	case "scroll":
		return s.actScroll(req)
	case "wait":
		return s.actWait(req)
	default:
		return nil, &UnknownKindError{Kind: req.Kind}
	}
}

func (s *Session) actClick(req ActionRequest) (Payload, error) {
	if req.Ref == "" {
		return nil, &MissingParameterError{Param: "ref"}
	}

	page, err := s.ensure()
	if err != nil {
		return nil, err
	}

	target := Locate(page, s.resolve(req.Ref))
	if err := target.Click(InteractTimeout); err != nil {
		return nil, &InteractionError{Action: "click", Ref: req.Ref, Err: err}
	}

	settle(page, SettleAfterClick)
	return Payload{"clicked": req.Ref}, nil
}

func (s *Session) actType(req ActionRequest) (Payload, error) {
	if req.Ref == "" {
		return nil, &MissingParameterError{Param: "ref"}
	}
	if req.Text == "" {
		return nil, &MissingParameterError{Param: "text"}
	}

	page, err := s.ensure()
	if err != nil {
		return nil, err
	}

	// Fill replaces the target's content rather than appending to it.
	target := Locate(page, s.resolve(req.Ref))
	if err := target.Fill(req.Text, InteractTimeout); err != nil {
		return nil, &InteractionError{Action: "type", Ref: req.Ref, Err: err}
	}

	return Payload{"typed": req.Ref}, nil
}

func (s *Session) actPress(req ActionRequest) (Payload, error) {
	if req.Key == "" {
		return nil, &MissingParameterError{Param: "key"}
	}

	page, err := s.ensure()
	if err != nil {
		return nil, err
	}

	if err := page.Press(req.Key); err != nil {
		return nil, &InteractionError{Action: "press", Err: err}
	}

	settle(page, SettleShort)
	return Payload{"pressed": req.Key}, nil
}

func (s *Session) actHover(req ActionRequest) (Payload, error) {
	if req.Ref == "" {
		return nil, &MissingParameterError{Param: "ref"}
	}

	page, err := s.ensure()
	if err != nil {
		return nil, err
	}

	target := Locate(page, s.resolve(req.Ref))
	if err := target.Hover(InteractTimeout); err != nil {
		return nil, &InteractionError{Action: "hover", Ref: req.Ref, Err: err}
	}

	return Payload{"hovered": req.Ref}, nil
}

func (s *Session) actScroll(req ActionRequest) (Payload, error) {
	page, err := s.ensure()
	if err != nil {
		return nil, err
	}

	direction := req.Direction
	if direction == "" {
		direction = "down"
	}

	dy := float64(ScrollDelta)
	if direction == "up" {
		dy = -dy
	}

	if err := page.Wheel(0, dy); err != nil {
		return nil, &InteractionError{Action: "scroll", Err: err}
	}

	time.Sleep(ScrollSettleDelay)
	return Payload{"scrolled": direction}, nil
}

func (s *Session) actWait(req ActionRequest) (Payload, error) {
	ms := clampWaitMs(req.TimeMs)
	time.Sleep(time.Duration(ms) * time.Millisecond)
	return Payload{"waitedMs": ms}, nil
}

// clampWaitMs applies the wait action's default and upper bound.
func clampWaitMs(ms int) int {
	if ms <= 0 {
		return WaitDefaultMs
	}
	if ms > WaitMaxMs {
		return WaitMaxMs
	}
	return ms
}

// Read extracts the page's main content region, independent of the ref
// mechanism. Format "text" (the default) returns visible text of the first
// matching content container; "html" returns cleaned markup.
func (s *Session) Read(format string) (Payload, error) {
	if format == "" {
		format = "text"
	}
	if format != "text" && format != "html" {
		return nil, &UnknownKindError{Kind: format}
	}

	page, err := s.ensure()
	if err != nil {
		return nil, err
	}

	settle(page, SettleShort)

	raw, err := page.Content()
	if err != nil {
		return nil, &InteractionError{Action: "read", Err: err}
	}

	var text string
	if format == "html" {
		cleaned, cleanErr := CleanHTML(raw, s.opts.SnapshotMaxChars)
		if cleanErr != nil {
			return nil, &InteractionError{Action: "read", Err: cleanErr}
		}
		text = cleaned.HTML
	} else {
		text, err = ExtractMainText(raw)
		if err != nil {
			return nil, &InteractionError{Action: "read", Err: err}
		}
	}

	title, err := page.Title()
	if err != nil {
		title = ""
	}

	return Payload{
		"url":   page.URL(),
		"title": title,
		"text":  text,
	}, nil
}

// Close tears the session down. Idempotent: closing an already-closed
// session succeeds.
func (s *Session) Close() (Payload, error) {
	if err := s.Teardown(); err != nil {
		return nil, err
	}
	return Payload{"closed": true}, nil
}

// Envelope shapes an action outcome into the single structured result every
// tool returns. Failures carry a prefixed message so browser errors are
// distinguishable from other tool errors; nothing propagates past this
// boundary as an unhandled fault.
func (s *Session) Envelope(action string, payload Payload, err error) string {
	out := Payload{"action": action}

	if err != nil {
		out["ok"] = false
		out["error"] = "browser: " + err.Error()
		if s.logger != nil {
			s.logger.Errorf("session %s: %s failed: %v", s.id, action, err)
		}
	} else {
		out["ok"] = true
		for k, v := range payload {
			out[k] = v
		}
		if s.logger != nil {
			s.logger.Debugf("session %s: %s ok", s.id, action)
		}
	}

	encoded, marshalErr := json.Marshal(out)
	if marshalErr != nil {
		// Result payloads are built from plain values; this is unreachable
		// short of a programming error.
		escaped := strings.ReplaceAll(action, `"`, `\"`)
		return `{"ok":false,"action":"` + escaped + `","error":"browser: failed to encode result"}`
	}
	return string(encoded)
}

// ErrorEnvelope shapes a failure that occurred before a session could be
// involved, such as malformed tool arguments.
func ErrorEnvelope(action string, err error) string {
	encoded, marshalErr := json.Marshal(Payload{
		"action": action,
		"ok":     false,
		"error":  "browser: " + err.Error(),
	})
	if marshalErr != nil {
		escaped := strings.ReplaceAll(action, `"`, `\"`)
		return `{"ok":false,"action":"` + escaped + `","error":"browser: failed to encode result"}`
	}
	return string(encoded)
}
