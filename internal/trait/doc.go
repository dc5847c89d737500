// Package trait declares typed, validated settings ("traits") and coerces raw
// values from flags, files and environment variables into their canonical Go
// form: bool, int64, float64, string (also for enums) and []any for lists.
package trait
