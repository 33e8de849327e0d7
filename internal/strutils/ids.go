package strutils

import (
	"strconv"
	"strings"
)

// ParseIDs parses a list of ids separated by commas or semicolons.
//
// Entries that aren't positive integers are dropped. The result keeps the first occurrence of
// each id, in input order.
func ParseIDs(raw string) []int {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	})

	ids := make([]int, 0, len(fields))
	seen := make(map[int]bool, len(fields))
	for _, field := range fields {
		id, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || id <= 0 {
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
