package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	config "github.com/dsnmoura/thrg-flow/configs"
	"github.com/dsnmoura/thrg-flow/internal/transfer"
)

const (
	openRouterURL   = "https://openrouter.ai/api/v1/chat/completions"
	openRouterModel = "openai/gpt-4o-mini"
)

type ContentService interface {
	Generate(ctx context.Context, req *transfer.ContentRequest) (*transfer.GeneratedContent, error)
}

type contentService struct {
	cfg    config.Config
	client *http.Client
}

func NewContentService(cfg config.Config) ContentService {
	return &contentService{
		cfg:    cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate asks the model for caption, hashtags and carousel image
// prompts for a post, depending on what the request enables.
func (s *contentService) Generate(ctx context.Context, req *transfer.ContentRequest) (*transfer.GeneratedContent, error) {
	if s.cfg.OpenRouterKey == "" {
		return nil, errors.New("OpenRouter API key not configured")
	}
	if req == nil || req.Theme == "" {
		return nil, errors.New("theme is required")
	}

	payload, err := json.Marshal(chatRequest{
		Model: openRouterModel,
		Messages: []chatMessage{
			{Role: "system", Content: buildSystemPrompt(req)},
			{Role: "user", Content: fmt.Sprintf("Crie o conteúdo para: %s", req.Theme)},
		},
		MaxTokens:   4000,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, openRouterURL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.OpenRouterKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error calling OpenRouter: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Info("unexpected OpenRouter response status", "status", resp.StatusCode)
		return nil, fmt.Errorf("OpenRouter API error: %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error decoding OpenRouter response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, errors.New("empty completion from OpenRouter")
	}

	var content transfer.GeneratedContent
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &content); err != nil {
		slog.Info(err.Error())
		return nil, errors.New("model returned invalid JSON")
	}
	return &content, nil
}

func buildSystemPrompt(req *transfer.ContentRequest) string {
	var keys []string
	if req.GenerateImages {
		keys = append(keys, `"carousel_prompts": [array de 3-5 prompts detalhados em inglês para geração de imagens do carrossel]`)
	}
	if req.GenerateCaption {
		keys = append(keys, fmt.Sprintf(`"caption": "texto da legenda em português, engajante e adequado para %s"`, req.Network))
	}
	if req.GenerateHashtags {
		keys = append(keys, fmt.Sprintf(`"hashtags": [array de 8-15 hashtags relevantes para %s]`, req.Network))
	}

	return fmt.Sprintf(`Você é um especialista em marketing digital e criação de conteúdo para redes sociais.

Gere conteúdo com base nos parâmetros:
- Objetivo: %s
- Rede Social: %s
- Template: %s
- Tema: %s

Responda SEMPRE em JSON válido com as seguintes chaves:
{
  %s
}`, req.Objective, req.Network, req.Template, req.Theme, strings.Join(keys, ",\n  "))
}
