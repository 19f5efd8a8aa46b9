package ops

import (
	"fmt"
	"sort"
	"strings"
)

// ParamType enumerates the JSON value kinds a parameter accepts.
type ParamType string

const (
	TypeFloat  ParamType = "float"
	TypeInt    ParamType = "int"
	TypeString ParamType = "string"
	TypeBool   ParamType = "bool"
	TypeEnum   ParamType = "enum"
)

// Param declares one parameter of an operation: its type, whether it is
// required, and the constraints the validator enforces before anything is
// staged or executed.
type Param struct {
	Name        string
	Type        ParamType
	Required    bool
	Description string

	// Numeric bounds, applied when set. GreaterThan is exclusive so that
	// "duration > 0" and "width >= 1" can both be expressed.
	Min         *float64
	Max         *float64
	GreaterThan *float64

	// Enum lists the accepted values for TypeEnum parameters.
	Enum []string

	// Default is merged in during validation when the caller omitted the
	// parameter. Only used for optional parameters.
	Default any
}

// Mode selects the executor transport for an operation.
type Mode string

const (
	// ModeStream pipes the request body to the engine's stdin and the
	// engine's stdout back to the response. Single input, single output.
	ModeStream Mode = "stream"
	// ModeBuffered stages all inputs to temp files first. Required for
	// seekable access, probing, and multi-input graphs.
	ModeBuffered Mode = "buffered"
)

// Kind groups operations by what they consume and produce.
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
	KindMulti Kind = "multi"
	KindInfo  Kind = "info"
)

// InputInfo carries the probed facts a builder needs about one input.
type InputInfo struct {
	HasAudio bool
	Duration float64 // seconds; 0 when unknown
	Width    int
	Height   int
}

// BuildFunc produces the filter graph for one validated request.
// inputs holds one entry per staged input when the operation declares
// NeedsProbe; otherwise it may be empty.
type BuildFunc func(args Args, inputs []InputInfo) (*Graph, error)

// Operation is one dispatch-table entry: the single source of truth for an
// operation's parameters, transport mode, probe requirement, and builder.
type Operation struct {
	Name        string
	Kind        Kind
	Description string
	Params      []Param

	Mode       Mode
	NeedsProbe bool

	// Input arity. Zero values mean exactly one input.
	MinInputs int
	MaxInputs int

	// DefaultFormat names the output container when the operation does not
	// take a format argument.
	DefaultFormat string

	// Check runs after the declarative parameter checks for cross-field
	// constraints the Param table cannot express.
	Check func(Args) error

	Build BuildFunc
}

// Inputs returns the operation's effective input arity bounds.
func (op *Operation) Inputs() (min, max int) {
	min, max = op.MinInputs, op.MaxInputs
	if min == 0 {
		min = 1
	}
	if max == 0 {
		max = min
	}
	return min, max
}

// OutputFormat decides the output container before any byte is produced.
// Operations with a format argument use it; everything else uses the entry's
// default. Streaming responses pick their Content-Type from this.
func (op *Operation) OutputFormat(args Args) string {
	if f, ok := args.String("format"); ok && f != "" {
		return f
	}
	return op.DefaultFormat
}

// Registry is the dispatch table. It is built once at startup; resolution is
// read-only afterwards so concurrent requests share it freely.
type Registry struct {
	ops map[string]*Operation
}

// NewRegistry returns the standard registry with every supported operation
// installed. Entries missing a builder are a programming error and panic at
// construction, not at request time.
func NewRegistry() *Registry {
	r := &Registry{ops: make(map[string]*Operation)}
	for _, op := range allOperations() {
		r.register(op)
	}
	return r
}

func (r *Registry) register(op *Operation) {
	if op.Name == "" {
		panic("ops: operation with empty name")
	}
	if op.Build == nil {
		panic(fmt.Sprintf("ops: operation %s has no builder", op.Name))
	}
	if _, dup := r.ops[op.Name]; dup {
		panic(fmt.Sprintf("ops: duplicate operation %s", op.Name))
	}
	if op.DefaultFormat == "" {
		switch op.Kind {
		case KindAudio:
			op.DefaultFormat = "mp3"
		default:
			op.DefaultFormat = "mp4"
		}
	}
	r.ops[op.Name] = op
}

// Resolve looks up an operation by name. Unknown names return an
// UnresolvedError, never a nil operation.
func (r *Registry) Resolve(name string) (*Operation, error) {
	op, ok := r.ops[strings.TrimSpace(name)]
	if !ok {
		return nil, &UnresolvedError{Name: name}
	}
	return op, nil
}

// Names returns all registered operation names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of registered operations.
func (r *Registry) Len() int { return len(r.ops) }

// Validate checks raw arguments against the operation's parameter table and
// Check hook. It returns a normalized copy with defaults merged in; the input
// bag is not mutated. The first violated constraint is reported as a
// ValidationError naming the field.
func (r *Registry) Validate(op *Operation, raw Args) (Args, error) {
	if raw == nil {
		raw = Args{}
	}
	args := raw.Clone()

	// Server-injected keys are never accepted from the caller.
	for key := range args {
		if strings.HasPrefix(key, "_") {
			delete(args, key)
		}
	}

	for _, p := range op.Params {
		if err := validateParam(p, args); err != nil {
			return nil, err
		}
	}
	if op.Check != nil {
		if err := op.Check(args); err != nil {
			return nil, err
		}
	}
	return args, nil
}

func validateParam(p Param, args Args) error {
	if _, present := args[p.Name]; !present {
		if p.Required {
			return &ValidationError{Field: p.Name, Constraint: "required"}
		}
		if p.Default != nil {
			args[p.Name] = p.Default
		}
		return nil
	}

	switch p.Type {
	case TypeFloat, TypeInt:
		f, ok := args.Float(p.Name)
		if !ok {
			return &ValidationError{Field: p.Name, Constraint: "must be a number"}
		}
		if p.Min != nil && f < *p.Min {
			return &ValidationError{Field: p.Name, Constraint: fmt.Sprintf("must be >= %g", *p.Min)}
		}
		if p.GreaterThan != nil && f <= *p.GreaterThan {
			return &ValidationError{Field: p.Name, Constraint: fmt.Sprintf("must be > %g", *p.GreaterThan)}
		}
		if p.Max != nil && f > *p.Max {
			return &ValidationError{Field: p.Name, Constraint: fmt.Sprintf("must be <= %g", *p.Max)}
		}
	case TypeString:
		s, ok := args.String(p.Name)
		if !ok {
			return &ValidationError{Field: p.Name, Constraint: "must be a string"}
		}
		if strings.TrimSpace(s) == "" {
			return &ValidationError{Field: p.Name, Constraint: "must not be empty"}
		}
	case TypeBool:
		if _, ok := args.Bool(p.Name); !ok {
			return &ValidationError{Field: p.Name, Constraint: "must be a boolean"}
		}
	case TypeEnum:
		s, ok := args.String(p.Name)
		if !ok {
			return &ValidationError{Field: p.Name, Constraint: "must be a string"}
		}
		for _, allowed := range p.Enum {
			if s == allowed {
				return nil
			}
		}
		return &ValidationError{
			Field:      p.Name,
			Constraint: fmt.Sprintf("must be one of %s", strings.Join(p.Enum, ", ")),
		}
	}
	return nil
}

// helpers for declaring bounds inline in the operation tables

func minOf(v float64) *float64     { return &v }
func maxOf(v float64) *float64     { return &v }
func moreThan(v float64) *float64  { return &v }
