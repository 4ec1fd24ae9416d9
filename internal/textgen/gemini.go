package textgen

import (
	"context"
	"errors"
	"time"

	"google.golang.org/genai"
)

// requestTimeout bounds a single text service call.
const requestTimeout = 60 * time.Second

type geminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGemini returns a Generator backed by the Gemini API. An empty apiKey
// yields a nil Generator so the planner keeps working without drafting.
func NewGemini(ctx context.Context, apiKey, model string) (Generator, error) {
	if apiKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &geminiGenerator{client: client, model: model}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}
	if req.Temperature > 0 {
		temperature := req.Temperature
		cfg.Temperature = &temperature
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("empty response from gemini")
	}
	return text, nil
}
