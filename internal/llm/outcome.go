// ABOUTME: Explicit result type for chat-model calls
// ABOUTME: Kind distinguishes success from each recoverable failure class
package llm

import "time"

// Kind classifies the result of a chat completion
type Kind int

const (
	OK Kind = iota
	RateLimited
	AuthFailed
	Timeout
	ConnectionFailed
	Unexpected
)

func (k Kind) String() string {
	switch k {
	case OK:
		return "ok"
	case RateLimited:
		return "rate_limited"
	case AuthFailed:
		return "auth_failed"
	case Timeout:
		return "timeout"
	case ConnectionFailed:
		return "connection_failed"
	default:
		return "unexpected"
	}
}

// Transient reports whether the failure is an expected operational one
// (as opposed to a bug or unknown API behaviour)
func (k Kind) Transient() bool {
	switch k {
	case RateLimited, AuthFailed, Timeout, ConnectionFailed:
		return true
	default:
		return false
	}
}

// Request is one grounded chat turn
type Request struct {
	System      string
	User        string
	Temperature float32
	Timeout     time.Duration
}

// Outcome is the result of a chat completion. Text is set only when Kind is OK;
// Err carries the underlying failure otherwise.
type Outcome struct {
	Kind Kind
	Text string
	Err  error
}

// Succeeded builds an OK outcome
func Succeeded(text string) Outcome {
	return Outcome{Kind: OK, Text: text}
}

// Failed builds a failed outcome of the given kind
func Failed(kind Kind, err error) Outcome {
	return Outcome{Kind: kind, Err: err}
}
