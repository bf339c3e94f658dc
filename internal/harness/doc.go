// Package harness turns token verification into named, independently
// runnable test cases.
//
// Generate resolves a family schema, extracts the declared tokens of a
// style artifact and returns one case per schema token plus one aggregate
// case for unexpected extras. Unknown families and malformed artifacts are
// returned as errors before any case exists, so a broken setup never
// produces a partial suite.
//
// # Suite Format
//
// The CLI runs suites described in YAML files:
//
//	name: outlined-button
//	description: "Outlined button declares its full token set"
//	family: outlined-button
//	styles:
//	  - ../styles/outlined-button.css
//	values: true
//	expect:
//	  failing:
//	    - declares md-outlined-button-outline-width
//
// Style paths are relative to the suite file. Without an expect block every
// case must pass; with one, exactly the listed cases must fail.
//
// # Usage
//
// In a Go test:
//
//	cases, err := harness.Generate(reg, "outlined-button", extract.StyleSheet(css))
//	require.NoError(t, err)
//	harness.RunTests(t, cases)
package harness
