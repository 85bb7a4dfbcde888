package utils

import "strconv"

// ParseOptionalInt returns nil for an empty value
func ParseOptionalInt(value string) (*int, error) {
	if value == "" {
		return nil, nil
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return nil, err
	}

	return &result, nil
}
