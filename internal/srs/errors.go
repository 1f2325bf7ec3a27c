package srs

import "fmt"

// ConfigError reports an invalid scheduling tunable. It is raised at
// configuration-write time so bad values never reach the scheduler; callers
// can surface it to the user and keep the previous configuration.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("srs: %s = %v: %s", e.Field, e.Value, e.Reason)
}
