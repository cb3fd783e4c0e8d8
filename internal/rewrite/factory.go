package rewrite

import (
	"context"
	"fmt"
	"strings"
)

// Options selects and configures a rewriter provider.
type Options struct {
	Provider string
	APIKey   string
	Model    string
}

// NewRewriter builds a Rewriter for the configured provider. The "static"
// provider is the no-API fallback: deterministic template-based regeneration.
func NewRewriter(ctx context.Context, opts Options) (Rewriter, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		if opts.APIKey != "" {
			provider = "gemini"
		} else {
			provider = "static"
		}
	}

	switch provider {
	case "gemini":
		if opts.APIKey == "" {
			return nil, fmt.Errorf("gemini rewriter requires an API key")
		}
		return NewGeminiRewriter(ctx, opts.APIKey, opts.Model)
	case "static":
		return StaticRewriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported rewriter provider: %s", opts.Provider)
	}
}

// StaticRewriter regenerates content without an LLM: it reframes the existing
// body under the requested tone and focus using a fixed template.
type StaticRewriter struct{}

func (StaticRewriter) Rewrite(_ context.Context, req Request) (string, error) {
	trainingType := req.Context.TrainingType
	if trainingType == "" {
		trainingType = "process training"
	}
	audience := req.Context.TargetAudience
	if audience == "" {
		audience = "operators"
	}
	industry := req.Context.Industry
	if industry == "" {
		industry = "manufacturing"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Module Overview (%s tone, %s focus)\n\n", req.tone(), req.focus())
	sb.WriteString(strings.TrimSpace(req.Content))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "This material supports %s and helps ensure correct procedures are followed by %s in %s environments.\n",
		strings.ToLower(trainingType), audience, industry)
	return sb.String(), nil
}
