package gemini

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/Qiangs1023/finpulse/internal/service/llm"
)

const defaultModel = "gemini-2.0-flash"

type Service struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

type Option func(*Service)

func WithModel(name string) Option {
	return func(s *Service) {
		s.model = s.client.GenerativeModel(name)
	}
}

func WithTemperature(temp float32) Option {
	return func(s *Service) {
		s.model.SetTemperature(temp)
	}
}

// WithSystemInstruction pins the system prompt at construction time so the
// model is never mutated per request.
func WithSystemInstruction(instruction string) Option {
	return func(s *Service) {
		s.model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(instruction)},
		}
	}
}

// NewService wraps a Gemini client as an llm.Service. WithModel must come
// before options that mutate the model.
func NewService(client *genai.Client, opts ...Option) llm.Service {
	svc := &Service{
		client: client,
		model:  client.GenerativeModel(defaultModel),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *Service) AskOnce(ctx context.Context, q llm.Question) (llm.Answer, error) {
	resp, err := s.model.GenerateContent(ctx, genai.Text(q.Content))
	if err != nil {
		return llm.Answer{}, err
	}
	return llm.Answer{
		Content: joinParts(resp),
	}, nil
}

func joinParts(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for i, part := range resp.Candidates[0].Content.Parts {
		text, ok := part.(genai.Text)
		if !ok {
			continue
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(string(text))
	}
	return sb.String()
}
