package browser

import "fmt"

// MissingParameterError reports a required field absent from an action
// request. No driver call is attempted.
type MissingParameterError struct {
	Param string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter: %s", e.Param)
}

// UnknownKindError reports an unrecognized act sub-kind.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown action kind: %q", e.Kind)
}

// InteractionError attributes a failed driver interaction to the action
// that attempted it.
type InteractionError struct {
	Action string
	Ref    string
	Err    error
}

func (e *InteractionError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("%s %s failed: %v", e.Action, e.Ref, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Action, e.Err)
}

func (e *InteractionError) Unwrap() error {
	return e.Err
}
