package config

import "strings"

// Environment names recognized by the configuration validation gates
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// NormalizeEnvironment lowercases and trims an environment name so
// comparisons against the Env constants hold however the variable was set.
func NormalizeEnvironment(env string) string {
	return strings.ToLower(strings.TrimSpace(env))
}

// IsProductionLike reports whether the environment must satisfy production
// configuration requirements. Staging validates like production so
// misconfiguration surfaces there first.
func IsProductionLike(env string) bool {
	switch NormalizeEnvironment(env) {
	case EnvProduction, EnvStaging:
		return true
	}
	return false
}
