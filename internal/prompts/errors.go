package prompts

import "fmt"

// UnknownNameError reports a prompt name with no registered default.
type UnknownNameError struct {
	Name string
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("unknown prompt name: %q", e.Name)
}
