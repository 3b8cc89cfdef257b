// Package completion provides the language model collaborator used by the
// checker. Providers are reached through the Completer interface so the
// checker never depends on a specific vendor API.
package completion

import "context"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation sent to a provider.
type Message struct {
	Role    string
	Content string
}

// Completer returns the raw text of a single model completion.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// CompleterFunc adapts a plain function to the Completer interface.
type CompleterFunc func(ctx context.Context, messages []Message) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, messages []Message) (string, error) {
	return f(ctx, messages)
}

// UserMessage builds a single user turn.
func UserMessage(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}
