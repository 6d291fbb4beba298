// Package safeenum provides a fallback-to-UNKNOWN lookup for wire-value
// enums, so an unmapped value never causes a parse failure or an error,
// substituting a safe zero value instead.
package safeenum

// FromRaw looks up raw in table and returns the mapped value, or unknown
// if raw has no entry. T is typically a small int-based enum type.
func FromRaw[T any](raw int, table map[int]T, unknown T) T {
	if v, ok := table[raw]; ok {
		return v
	}
	return unknown
}
