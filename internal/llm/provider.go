package llm

import "context"

// Provider is the core abstraction for generative-text interaction.
// Consumers call Generate with a Request and receive free-form text; all
// downstream structure is recovered by the contract parser, not here.
type Provider interface {
	// Generate sends a prompt to the service and returns its text response.
	// An empty response is reported as *ErrEmptyResponse, never as
	// (Response{Text: ""}, nil).
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the service.
type Request struct {
	// System is the system instruction. Sets the agent's role and the
	// text contract its responses must follow.
	System string

	// Messages is the conversation history. For single-turn generation
	// (the only case in the pipeline), this contains one user message.
	Messages []Message

	// Sampling controls output randomness. Generation and validation
	// use different profiles (creative vs. consistent).
	Sampling Sampling
}

// Sampling holds the sampling configuration for one request.
type Sampling struct {
	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64

	// TopP is the nucleus sampling probability. 0 means provider default.
	TopP float64

	// TopK limits sampling to the K most likely tokens. 0 means provider
	// default. Not supported by every provider; unsupported providers
	// ignore it.
	TopK int

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the service's output.
type Response struct {
	// Text is the raw response text. Guaranteed non-empty.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
