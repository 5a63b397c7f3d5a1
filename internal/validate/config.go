package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ValidatePortRange checks that port is dialable (1-65535). Port 0 is
// refused because peers need a predictable address.
func ValidatePortRange(port int) error {
	return ValidateField(port, "required,min=1,max=65535")
}

// ValidateRequiredString returns "<fieldName> cannot be empty" for "".
func ValidateRequiredString(value, fieldName string) error {
	if err := ValidateField(value, "required"); err != nil {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidatePositiveTimeout checks that timeout is greater than zero.
func ValidatePositiveTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	return nil
}

// ValidatePositiveInt checks that value is greater than zero.
func ValidatePositiveInt(value int, name string) error {
	if err := ValidateField(value, "gt=0"); err != nil {
		return fmt.Errorf("%s must be positive, got %d", name, value)
	}
	return nil
}

var nodeNamePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// NodeNameFormat checks a serf node name: lowercase letters, digits, hyphens
// and underscores, starting and ending with a letter or digit.
func NodeNameFormat(name string) error {
	if name == "" {
		return fmt.Errorf("node name cannot be empty")
	}

	if !nodeNamePattern.MatchString(name) {
		return fmt.Errorf("node name '%s' must contain only lowercase letters [a-z], numbers [0-9], hyphens (-), and underscores (_)", name)
	}

	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, "_") ||
		strings.HasSuffix(name, "-") || strings.HasSuffix(name, "_") {
		return fmt.Errorf("node name '%s' cannot start or end with hyphen (-) or underscore (_)", name)
	}

	return nil
}
