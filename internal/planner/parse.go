package planner

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/aura-dev/jiractl/internal/plan"
)

// ErrNoPlan is returned when the model reply does not contain a valid plan.
var ErrNoPlan = errors.New("no valid plan in model reply")

const planSchemaURL = "https://schemas.jiractl.dev/plan.json"

const planSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["number", "name"],
    "additionalProperties": false,
    "properties": {
      "number": {"type": "integer", "minimum": 1},
      "name": {"type": "string", "minLength": 1},
      "description": {"type": "string"},
      "timeline": {"type": "string"},
      "tasks": {"type": "array", "items": {"type": "string"}},
      "dependencies": {"type": "array", "items": {"type": "integer", "minimum": 1}}
    }
  }
}`

var planSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(planSchemaJSON))
	if err != nil {
		panic(fmt.Sprintf("plan schema: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(planSchemaURL, doc); err != nil {
		panic(fmt.Sprintf("plan schema: %v", err))
	}
	sch, err := c.Compile(planSchemaURL)
	if err != nil {
		panic(fmt.Sprintf("plan schema: %v", err))
	}
	return sch
}

// ParsePlan strictly parses a model reply into stages. The reply must be a
// single JSON array, optionally wrapped in a Markdown code fence. Anything
// else, including a valid array surrounded by prose, wraps ErrNoPlan.
func ParsePlan(reply string) ([]plan.Stage, error) {
	body := stripFence(strings.TrimSpace(reply))
	if body == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrNoPlan)
	}

	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPlan, err)
	}
	if err := planSchema.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPlan, err)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.DisallowUnknownFields()
	var stages []plan.Stage
	if err := dec.Decode(&stages); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPlan, err)
	}
	if err := plan.Validate(stages); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPlan, err)
	}
	plan.SortByNumber(stages)
	return stages, nil
}

// stripFence removes a surrounding ``` or ```json fence.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := s[3 : len(s)-3]
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		lang := strings.TrimSpace(inner[:nl])
		if lang == "" || strings.EqualFold(lang, "json") {
			inner = inner[nl+1:]
		}
	}
	return strings.TrimSpace(inner)
}
