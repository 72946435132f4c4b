package strategy

import (
	"context"
	"errors"

	"github.com/sokinpui/spark.go/model"
)

// Generator turns a Request into a workflow blueprint.
// It holds no mutable state; every call is one upstream request.
type Generator struct {
	llm    model.LLM
	config *model.Config
}

func New(llm model.LLM, config *model.Config) *Generator {
	return &Generator{llm: llm, config: config}
}

func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	if g.llm == nil {
		return "", &Error{Kind: KindConfigurationMissing, Err: model.ErrConfiguration}
	}

	text, err := g.llm.Generate(ctx, req.Prompt(), g.config)
	if err != nil {
		if errors.Is(err, model.ErrConfiguration) {
			return "", &Error{Kind: KindConfigurationMissing, Err: err}
		}
		return "", &Error{Kind: KindServiceUnavailable, Err: err}
	}

	if text == "" {
		return Fallback, nil
	}
	return text, nil
}
