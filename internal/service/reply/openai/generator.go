// Package openai provides an OpenAI-backed reply generator.
package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"ai-voice-reception-service/internal/service/reply"
)

const systemPrompt = `You are a friendly telephone receptionist for a veterinary clinic.
Keep replies to one or two short spoken sentences. Never give medical advice;
for anything health-related, offer an appointment or a callback from staff.
If the caller describes an emergency, tell them a staff member is being connected.`

// Generator implements reply.Generator with chat completions.
type Generator struct {
	client *openai.Client
	model  string
}

// New creates a generator using the given chat model ("gpt-4o-mini", ...).
func New(apiKey, model string) *Generator {
	return &Generator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (g *Generator) Generate(ctx context.Context, req reply.Request) (reply.Reply, error) {
	msgs := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: g.context(req)},
	}
	for _, t := range req.History {
		if t.Caller != "" {
			msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: t.Caller})
		}
		if t.Assistant != "" {
			msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: t.Assistant})
		}
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Utterance})

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    msgs,
		Temperature: 0.3,
		MaxTokens:   120,
	})
	if err != nil {
		return reply.Reply{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return reply.Reply{}, fmt.Errorf("chat completion: empty response")
	}

	return reply.Reply{
		Text: strings.TrimSpace(resp.Choices[0].Message.Content),
	}, nil
}

func (g *Generator) context(req reply.Request) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	if req.ClinicName != "" {
		fmt.Fprintf(&b, "\nThe clinic is called %s.", req.ClinicName)
	}
	if req.Intent != "" {
		fmt.Fprintf(&b, "\nThe caller's request was classified as %q with %s urgency.", req.Intent, req.Urgency)
	}
	return b.String()
}
