package aibridge

import (
	"context"

	genai "google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiModel is a ChatModel backed by the Gemini API.
type GeminiModel struct {
	cli   *genai.Client
	model string
}

// NewGeminiModel returns a GeminiModel. An empty apiKey lets the client read
// GEMINI_API_KEY / GOOGLE_API_KEY from the environment.
func NewGeminiModel(ctx context.Context, apiKey, model string) (*GeminiModel, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiModel{cli: cli, model: model}, nil
}

func (g *GeminiModel) Name() string { return "gemini:" + g.model }

// Complete sends the system prompt and the user text as one content and
// asks for application/json.
func (g *GeminiModel) Complete(ctx context.Context, system, user string) (string, error) {
	full := system + "\n\n[INPUT]\n" + user
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return "", err
	}
	return firstCandidateText(resp)
}

func firstCandidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
