package mastery

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// Action is the learner's response to a reviewed item.
type Action int

const (
	Know     Action = iota + 1 // Recalled the phrase.
	Forgot                     // Knew it once, could not recall it now.
	DontKnow                   // No idea; a harder failure signal.
)

// LeechAction is a manual resolution applied to a leech.
type LeechAction int

const (
	RetryShort    LeechAction = iota + 1 // Try again in a few minutes.
	ResetProgress                        // Start the item over from scratch.
	Postpone                             // Put the item away for a day.
)

var (
	actionNames  = [...]string{Know: "know", Forgot: "forgot", DontKnow: "dont_know"}
	actionByName = map[string]Action{
		"know":      Know,
		"forgot":    Forgot,
		"dont_know": DontKnow,
	}

	leechActionNames  = [...]string{RetryShort: "retry_short", ResetProgress: "reset_progress", Postpone: "postpone"}
	leechActionByName = map[string]LeechAction{
		"retry_short":    RetryShort,
		"reset_progress": ResetProgress,
		"postpone":       Postpone,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Action(0)
	_ json.Marshaler           = Action(0)
	_ json.Unmarshaler         = (*Action)(nil)
	_ encoding.TextMarshaler   = Action(0)
	_ encoding.TextUnmarshaler = (*Action)(nil)

	_ fmt.Stringer             = LeechAction(0)
	_ json.Marshaler           = LeechAction(0)
	_ json.Unmarshaler         = (*LeechAction)(nil)
	_ encoding.TextMarshaler   = LeechAction(0)
	_ encoding.TextUnmarshaler = (*LeechAction)(nil)
)

// ParseAction converts a name ("know", "forgot", "dont_know") to an Action.
func ParseAction(s string) (Action, error) {
	var a Action
	if err := a.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return a, nil
}

// String returns the action name. For invalid values it returns "Action(n)".
func (a Action) String() string {
	if a.IsValid() {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// IsValid reports whether a is one of the defined actions.
func (a Action) IsValid() bool {
	return a >= Know && a <= DontKnow
}

// IsFailure reports whether the action counts as a lapse.
func (a Action) IsFailure() bool {
	return a == Forgot || a == DontKnow
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	if !a.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAction, int(a))
	}
	return []byte(actionNames[a]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	v, ok := actionByName[string(text)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidAction, text)
	}
	*a = v
	return nil
}

// MarshalJSON implements json.Marshaler. Actions serialize as JSON strings.
func (a Action) MarshalJSON() ([]byte, error) {
	text, err := a.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Action) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAction, data)
	}
	return a.UnmarshalText([]byte(s))
}

// ParseLeechAction converts a name ("retry_short", "reset_progress",
// "postpone") to a LeechAction.
func ParseLeechAction(s string) (LeechAction, error) {
	var a LeechAction
	if err := a.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return a, nil
}

// String returns the action name. For invalid values it returns "LeechAction(n)".
func (a LeechAction) String() string {
	if a.IsValid() {
		return leechActionNames[a]
	}
	return fmt.Sprintf("LeechAction(%d)", int(a))
}

// IsValid reports whether a is one of the defined leech actions.
func (a LeechAction) IsValid() bool {
	return a >= RetryShort && a <= Postpone
}

// MarshalText implements encoding.TextMarshaler.
func (a LeechAction) MarshalText() ([]byte, error) {
	if !a.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAction, int(a))
	}
	return []byte(leechActionNames[a]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *LeechAction) UnmarshalText(text []byte) error {
	v, ok := leechActionByName[string(text)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidAction, text)
	}
	*a = v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (a LeechAction) MarshalJSON() ([]byte, error) {
	text, err := a.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *LeechAction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAction, data)
	}
	return a.UnmarshalText([]byte(s))
}
