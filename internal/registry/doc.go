// Package registry holds the canonical token schemas of component families.
//
// A Registry is built once from compiled family schemas, validated as a
// whole (unknown bases, inheritance cycles, removals of tokens the base
// never defined) and then never mutated. Every family's resolved schema is
// computed at construction, so Resolve is a pure map read and a single
// Registry can be shared by tests running in parallel.
//
// # Inheritance
//
// A variant names its base with extends. Resolution starts from the root of
// the chain and walks down to the variant:
//
//  1. tokens listed in the variant's remove list are dropped
//  2. a variant token with the name of an inherited one replaces it in place
//  3. other variant tokens are appended in declaration order
//
// Names are qualified with the nearest prefix on the chain, so an
// outlined-button with prefix md-outlined-button reports the inherited
// container-shape token as md-outlined-button-container-shape.
//
// # Sources
//
// LoadDir reads CUE files (family: <id>: {...}) and *.tokens.json files
// from a directory. Structural errors in any source abort loading.
package registry
