// Package ops is the dispatch table for media operations: per-operation
// parameter declarations, validation, and pure filter-graph construction.
// Nothing in this package touches the filesystem or spawns processes; the
// media package consumes the graphs it produces.
package ops

// allOperations assembles the full dispatch table.
func allOperations() []*Operation {
	var out []*Operation
	out = append(out, videoOperations()...)
	out = append(out, audioOperations()...)
	out = append(out, multiOperations()...)
	return out
}
