// Package reply defines the conversational reply contract. Generators
// turn a caller utterance plus call history into the next spoken line.
package reply

import "context"

// Turn is one prior exchange in the call.
type Turn struct {
	Caller    string
	Assistant string
}

// Request carries everything a generator may condition on.
type Request struct {
	Utterance  string
	History    []Turn
	ClinicName string
	Intent     string
	Urgency    string
}

// Reply is the generated response. IntentHint is an optional intent
// name the generator inferred from wider context; the triage decision
// uses it only to refine a general classification, never to override
// an emergency.
type Reply struct {
	Text       string
	IntentHint string
}

// Generator produces the next assistant line for an utterance.
type Generator interface {
	Generate(ctx context.Context, req Request) (Reply, error)
}
