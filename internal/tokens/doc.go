// Package tokens provides the shared data model for design-token verification.
//
// This package contains type definitions only. All other internal packages
// import tokens; tokens imports nothing internal.
//
// Key design constraints:
//   - Token names are compared with exact, case-sensitive string equality
//   - Custom property names never carry the leading "--"
//   - Ordered sets are slices; uniqueness is enforced by the producer
//   - All JSON tags use snake_case
package tokens
