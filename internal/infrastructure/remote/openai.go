package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/assistant"
)

const systemPromptTemplate = `Sos el asistente virtual de una publicación de MercadoLibre.
Respondé en español rioplatense, en no más de tres oraciones, solo sobre este producto.
Producto: %s (ID %s).
Si no sabés algo, sugerí revisar la descripción de la publicación.`

// OpenAIConfig configures an OpenAI-compatible chat completions backend
type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// OpenAIAssistant answers turns through a chat completions endpoint
type OpenAIAssistant struct {
	client openai.Client
	model  shared.ChatModel
}

// NewOpenAIAssistant creates the client. Retries are left to the caller's
// deadline, so the SDK's own retries are disabled unless opts say otherwise.
func NewOpenAIAssistant(cfg OpenAIConfig, opts ...option.RequestOption) *OpenAIAssistant {
	clientOpts := []option.RequestOption{option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(cfg.APIKey))
	}
	clientOpts = append(clientOpts, opts...)

	return &OpenAIAssistant{
		client: openai.NewClient(clientOpts...),
		model:  shared.ChatModel(cfg.Model),
	}
}

// Reply implements assistant.Remote
func (a *OpenAIAssistant) Reply(ctx context.Context, turn assistant.Turn) (string, error) {
	completion, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt(turn.Product)),
			openai.UserMessage(turn.Message),
		},
		Model: a.model,
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: HTTP %d", assistant.ErrRemoteUnavailable, apiErr.StatusCode)
		}
		return "", fmt.Errorf("%w: %w", assistant.ErrRemoteUnavailable, err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", assistant.ErrRemoteMalformed)
	}
	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty content", assistant.ErrRemoteMalformed)
	}
	return text, nil
}

func systemPrompt(p assistant.ProductContext) string {
	title := p.ProductTitle
	if title == "" {
		title = "sin título"
	}
	return fmt.Sprintf(systemPromptTemplate, title, p.ProductID)
}

var _ assistant.Remote = (*OpenAIAssistant)(nil)
