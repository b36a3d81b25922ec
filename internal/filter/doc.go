// Package filter compiles user-supplied search criteria into a matcher.
//
// A specification has three independent criteria groups: file name,
// extension, and path substring. Each group may hold several alternatives
// separated by commas, semicolons, or whitespace. A record matches when
// every non-empty group is satisfied by at least one of its alternatives
// (AND across groups, OR within a group).
//
// Two modes are supported:
//   - Literal: case-insensitive substring matching for name and path,
//     exact case-insensitive equality for extensions.
//   - Pattern: case-insensitive regular expressions. Extension patterns
//     are anchored to the tail of the extension. A pattern that fails to
//     compile degrades to a literal match of its text rather than
//     invalidating the whole specification.
package filter
