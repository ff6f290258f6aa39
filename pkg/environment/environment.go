package environment

import "strings"

// Environment represents an application deployment environment.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// All returns the canonical environments in a stable order.
func All() []Environment {
	return []Environment{Production, Staging, Development}
}

// Strings returns All as plain strings, handy for enum validation.
func Strings() []string {
	return []string{string(Production), string(Staging), string(Development)}
}

// Parse normalizes common aliases (prod, stage, dev) to canonical values.
// ok is false for unrecognized input, in which case Development is returned.
func Parse(s string) (env Environment, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Production), "prod":
		return Production, true
	case string(Staging), "stage":
		return Staging, true
	case string(Development), "dev":
		return Development, true
	default:
		return Development, false
	}
}

// IsValid reports whether e is one of the canonical values.
func (e Environment) IsValid() bool {
	switch e {
	case Development, Staging, Production:
		return true
	}
	return false
}

func (e Environment) String() string {
	return string(e)
}
