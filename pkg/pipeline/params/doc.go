// Package params classifies, formats and validates pipeline parameter values against the
// closed scalar type set understood by the backend (Int, Double, Bool, String, Unidentified).
//
// Classification always checks booleans before integers so that a boolean is never reported
// as an integer, then floats, then strings. Data paths are not scalars: they are validated
// structurally and never classified.
package params
