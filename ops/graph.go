package ops

// Graph is the declarative output of a builder: the filter expressions and
// stream mappings one engine invocation needs. Builders only describe the
// work; the executor owns processes, files, and state.
type Graph struct {
	// VideoFilter and AudioFilter are simple per-stream filter chains
	// (-vf / -af). Either may be empty when the stream passes through.
	VideoFilter string
	AudioFilter string

	// Complex is a full filter_complex expression for multi-input
	// operations. When set, VideoFilter and AudioFilter are ignored and
	// OutputLabels lists the pads to map.
	Complex string

	// OutputLabels are the named pads mapped from Complex, in order, e.g.
	// "[v]", "[a]". An operation whose inputs carry no audio omits the
	// audio label entirely instead of mapping a pad that does not exist.
	OutputLabels []string

	// InputArgs holds per-input arguments placed before the matching -i
	// (seek offsets, stream_loop counts). Indexed like the inputs; nil
	// entries mean no extra arguments.
	InputArgs [][]string

	// OutputArgs are appended after the filters and maps: codec choices,
	// copy flags, -shortest, frame counts.
	OutputArgs []string
}

// HasComplex reports whether the graph requires filter_complex mapping.
func (g *Graph) HasComplex() bool { return g.Complex != "" }

// copyGraph returns a graph that remuxes both streams untouched.
func copyGraph() *Graph {
	return &Graph{OutputArgs: []string{"-c", "copy"}}
}
