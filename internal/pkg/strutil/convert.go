package strutil

import "strconv"

// ConvertToInt parses s as an int. Returns 0 when s does not parse.
func ConvertToInt(s string) int {
	value, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return value
}
