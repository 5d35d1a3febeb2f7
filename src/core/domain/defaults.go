package domain

// DefaultListLimit is the page size for patient prescription listings when
// the caller does not supply a usable limit.
const DefaultListLimit = 10

// MinListLimit and MaxListLimit bound the patient listing page size; caller
// supplied limits are clamped into this range before use.
const (
	MinListLimit = 1
	MaxListLimit = 100
)

// MaxItemQty caps a prescription line quantity. Requested quantities arrive
// as floats; values above this bound are rejected rather than risked in a
// narrowing float-to-int conversion.
const MaxItemQty = 1<<31 - 1
