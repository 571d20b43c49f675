package utils

import (
	"fmt"
	"strconv"
	"strings"
)

func P[T any](v T) *T {
	return &v
}

// ParseIDs turns "1, 2,3" into ids; an empty string gives nil.
func ParseIDs(s string) ([]uint, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var ids []uint
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", part, err)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
