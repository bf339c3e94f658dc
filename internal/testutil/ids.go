package testutil

// FixedIDGenerator returns the same run id every time.
//
// The CLI stamps a run id on JSON output; tests inject this generator so
// the output is byte-identical across runs.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a fixed run id generator.
// If id is empty, NewID returns "test-run-default".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedIDGenerator{id: id}
}

// NewID returns the fixed run id.
func (g *FixedIDGenerator) NewID() string {
	return g.id
}
