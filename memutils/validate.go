package memutils

// Validatable is anything DebugValidate can check, such as a Layout
type Validatable interface {
	Validate() error
}

var _ Validatable = Layout{}
