package session

import (
	"fmt"
	"strings"
)

// Validation messages surfaced by the step controllers.
const (
	MsgNoConcern = "no concern selected"
	MsgNoDiet    = "no diet selected"
	MsgRequired  = "required"
)

// ValidationError means the user left a required selection empty. It blocks
// forward navigation and is shown inline.
type ValidationError struct {
	Field   Field
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects per-field failures from a multi-question submit.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, v := range e {
		parts = append(parts, v.Error())
	}
	return strings.Join(parts, "; ")
}

// Fields returns the failing fields in order.
func (e ValidationErrors) Fields() []Field {
	out := make([]Field, 0, len(e))
	for _, v := range e {
		out = append(out, v.Field)
	}
	return out
}

// For returns the error recorded for field, if any.
func (e ValidationErrors) For(field Field) (*ValidationError, bool) {
	for _, v := range e {
		if v.Field == field {
			return v, true
		}
	}
	return nil, false
}

// StorageError wraps a failed read or write against the durable store.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
