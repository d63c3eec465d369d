package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ValidStrategies lists the accepted sync strategies.
var ValidStrategies = []string{StrategyRebase, StrategyMerge}

var prefixRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidateStrategy validates a sync strategy value against ValidStrategies.
// Exported for use in CLI flag validation.
func ValidateStrategy(strategy string) error {
	if strategy == "" {
		return fmt.Errorf("strategy must not be empty")
	}
	return validateEnum(strategy, "strategy", ValidStrategies)
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// validatePrefix checks a branch prefix is usable as the first ref component.
func validatePrefix(prefix, field string) error {
	if !prefixRe.MatchString(prefix) {
		return fmt.Errorf("invalid %s %q: must start with a letter or digit and contain only letters, digits, '.', '_' or '-'", field, prefix)
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
