package opspec

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var nameRegexp = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// Operation is a parsed operation start spec.
type Operation struct {
	ID            string
	ResourceKind  string
	OperationKind string
}

// ParseOperations parses operation specs in the `RESOURCE/OPERATION[=ID]` form.
// Operations without ID get an empty one.
func ParseOperations(specs []string) ([]Operation, error) {
	ops := make([]Operation, 0, len(specs))
	ids := map[string]struct{}{}

	for _, spec := range specs {
		if spec == "" {
			return nil, fmt.Errorf("operation spec cannot be empty")
		}

		kinds, id, hasID := strings.Cut(spec, "=")
		resource, operation, ok := strings.Cut(kinds, "/")
		if !ok {
			return nil, fmt.Errorf("invalid operation spec %q, expected RESOURCE/OPERATION[=ID]", spec)
		}
		if !isValidName(resource) {
			return nil, fmt.Errorf("invalid resource kind %q", resource)
		}
		if !isValidName(operation) {
			return nil, fmt.Errorf("invalid operation kind %q", operation)
		}

		if hasID {
			if !isValidName(id) {
				return nil, fmt.Errorf("invalid operation id %q", id)
			}
			if _, ok := ids[id]; ok {
				return nil, fmt.Errorf("operation id %q is repeated", id)
			}
			ids[id] = struct{}{}
		}

		ops = append(ops, Operation{
			ID:            id,
			ResourceKind:  resource,
			OperationKind: operation,
		})
	}

	return ops, nil
}

// ParseCancelAfter parses cancellation specs in the `ID=DURATION` form.
func ParseCancelAfter(specs []string) (map[string]time.Duration, error) {
	cancels := make(map[string]time.Duration, len(specs))

	for _, spec := range specs {
		if spec == "" {
			return nil, fmt.Errorf("cancel spec cannot be empty")
		}

		id, value, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("invalid cancel spec %q, expected ID=DURATION", spec)
		}
		if !isValidName(id) {
			return nil, fmt.Errorf("invalid operation id %q", id)
		}

		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("invalid duration for %q: %w", id, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("duration for %q must be positive", id)
		}

		cancels[id] = d
	}

	return cancels, nil
}

func isValidName(s string) bool {
	return nameRegexp.MatchString(s)
}
