package rewrite

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiRewriter implements Rewriter using Gemini text generation.
type GeminiRewriter struct {
	client *genai.Client
	model  string
}

func NewGeminiRewriter(ctx context.Context, apiKey, modelName string) (*GeminiRewriter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	return &GeminiRewriter{client: client, model: modelName}, nil
}

func (g *GeminiRewriter) Rewrite(ctx context.Context, req Request) (string, error) {
	prompt := buildRewritePrompt(req)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini rewrite failed: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned empty content")
	}
	return text, nil
}

func buildRewritePrompt(req Request) string {
	content := req.Content
	if len(content) > 3000 {
		content = content[:3000]
	}
	changes := req.Changes
	if changes == "" {
		changes = "none"
	}
	var sb strings.Builder
	sb.WriteString("Regenerate this training module content.\n\n")
	sb.WriteString("ORIGINAL CONTENT:\n")
	sb.WriteString(content)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "TONE: %s\n", req.tone())
	fmt.Fprintf(&sb, "FOCUS: %s\n", req.focus())
	fmt.Fprintf(&sb, "CHANGES: %s\n", changes)
	fmt.Fprintf(&sb, "TARGET AUDIENCE: %s\n", req.Context.TargetAudience)
	fmt.Fprintf(&sb, "INDUSTRY: %s\n\n", req.Context.Industry)
	sb.WriteString("Keep the key information, apply the requested tone and focus, ")
	sb.WriteString("and return only the regenerated training content.")
	return sb.String()
}
