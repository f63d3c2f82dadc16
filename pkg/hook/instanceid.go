package hook

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxInstanceIDLength is the maximum length of an instance ID.
const MaxInstanceIDLength = 255

// validInstanceIDPattern matches IDs such as "i-0abc123" or "iid-datasource-none".
var validInstanceIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._\-]*$`)

// ValidateInstanceID checks that id can be used as a semaphore directory name.
func ValidateInstanceID(id string) error {
	if id == "" {
		return ErrNoInstanceID
	}

	if len(id) > MaxInstanceIDLength {
		return fmt.Errorf("instance ID cannot exceed %d characters", MaxInstanceIDLength)
	}

	// Check for path traversal attempts before regex check
	if strings.Contains(id, "..") || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("instance ID %q contains invalid characters", id)
	}

	if !validInstanceIDPattern.MatchString(id) {
		return fmt.Errorf("instance ID %q can only contain letters, numbers, dots, hyphens and underscores", id)
	}

	return nil
}
