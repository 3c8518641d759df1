package store

// RuleError is a user-facing validation failure. State is unchanged when one
// is returned.
type RuleError struct {
	Message string
}

func (e *RuleError) Error() string { return e.Message }

func ruleError(msg string) error { return &RuleError{Message: msg} }
