package llm

import (
	"fmt"
	"strings"

	cohere "github.com/cohere-ai/cohere-go/v2"

	"clipchat/ops"
)

// toolType maps a parameter type onto the Python-style type names the Cohere
// tool schema expects.
func toolType(t ops.ParamType) string {
	switch t {
	case ops.TypeFloat:
		return "float"
	case ops.TypeInt:
		return "int"
	case ops.TypeBool:
		return "bool"
	default:
		return "str"
	}
}

// ToolsFromRegistry renders every registered operation as a Cohere tool, so
// the dispatch table is the single source of truth for what the model can
// call. Enum values and defaults are folded into the parameter descriptions;
// the schema itself has no enum support.
func ToolsFromRegistry(r *ops.Registry) []*cohere.Tool {
	var tools []*cohere.Tool
	for _, name := range r.Names() {
		op, err := r.Resolve(name)
		if err != nil {
			continue
		}
		tools = append(tools, toolFromOperation(op))
	}
	return tools
}

func toolFromOperation(op *ops.Operation) *cohere.Tool {
	desc := op.Description
	if min, max := op.Inputs(); min > 1 || max > 1 {
		if min == max {
			desc = fmt.Sprintf("%s Requires exactly %d input files.", desc, min)
		} else {
			desc = fmt.Sprintf("%s Requires between %d and %d input files.", desc, min, max)
		}
	}

	defs := make(map[string]*cohere.ToolParameterDefinitionsValue, len(op.Params))
	for _, p := range op.Params {
		defs[p.Name] = &cohere.ToolParameterDefinitionsValue{
			Type:        toolType(p.Type),
			Description: cohere.String(paramDescription(p)),
			Required:    cohere.Bool(p.Required),
		}
	}
	return &cohere.Tool{
		Name:                 op.Name,
		Description:          desc,
		ParameterDefinitions: defs,
	}
}

func paramDescription(p ops.Param) string {
	parts := []string{p.Description}
	if len(p.Enum) > 0 {
		parts = append(parts, fmt.Sprintf("One of: %s.", strings.Join(p.Enum, ", ")))
	}
	if p.Default != nil {
		parts = append(parts, fmt.Sprintf("Defaults to %v.", p.Default))
	}
	return strings.Join(parts, " ")
}
