// Package mock provides a templated reply generator for local runs and
// tests.
package mock

import (
	"context"
	"fmt"

	"ai-voice-reception-service/internal/service/reply"
)

// Generator implements reply.Generator with fixed per-intent lines.
type Generator struct{}

func New() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(ctx context.Context, req reply.Request) (reply.Reply, error) {
	if err := ctx.Err(); err != nil {
		return reply.Reply{}, err
	}

	var text string
	switch req.Intent {
	case "appointment_new":
		text = "I can help with that. What day works best for you?"
	case "appointment_modify":
		text = "Of course, let me pull up your appointment. What would you like to change?"
	case "prescription_refill":
		text = "I'll pass the refill request to our team. Which pharmacy should we send it to?"
	case "insurance_inquiry":
		text = "Our staff can check that for you. Which insurance provider are you with?"
	default:
		text = "Thanks for calling. How can I help you and your pet today?"
	}
	if req.ClinicName != "" && req.Intent == "" {
		text = fmt.Sprintf("Thanks for calling %s. How can I help you and your pet today?", req.ClinicName)
	}
	return reply.Reply{Text: text}, nil
}
