// Package sanitizer normalizes room and booking input before validation.
//
// Every function is idempotent and never fails; input that is still malformed
// after cleaning is left for the validators to reject. Names and organizers
// lose surrounding and repeated whitespace, locations are trimmed and
// uppercased ("b2" becomes "B2"), and room ids are trimmed.
package sanitizer
