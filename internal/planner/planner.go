// Package planner turns a specification document into a staged
// implementation plan using a hosted language model.
package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/aura-dev/jiractl/internal/plan"
)

// Planner generates stage plans.
type Planner struct {
	model Completer
}

// New returns a Planner that asks model for plans.
func New(model Completer) *Planner {
	return &Planner{model: model}
}

// Generate asks the model for a plan of specText. Model errors are returned
// as-is; replies that do not parse as a plan wrap ErrNoPlan.
func (p *Planner) Generate(ctx context.Context, specText string) ([]plan.Stage, error) {
	if strings.TrimSpace(specText) == "" {
		return nil, fmt.Errorf("%w: specification is empty", ErrNoPlan)
	}
	prompt, err := RenderPrompt(specText)
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}
	reply, err := p.model.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParsePlan(reply)
}
