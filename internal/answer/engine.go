// ABOUTME: Grounded-answer engine: answers from retrieved context or falls back to excerpts
// ABOUTME: Chat failures are logged by severity and never reach the caller
package answer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harper/docqa/internal/llm"
	"github.com/harper/docqa/internal/logging"
	"github.com/harper/docqa/internal/models"
)

// Fixed user-facing messages
const (
	EmptyQuestion  = "Please enter a question."
	DontKnow       = "I don't know based on the uploaded documents."
	FallbackHeader = "LLM is unavailable. Showing the most relevant excerpts:"
)

// SystemPrompt is the instruction sent with every grounded question
const SystemPrompt = "You are a helpful AI knowledge assistant.\n" +
	"Rules:\n" +
	"1) Answer ONLY using the provided CONTEXT.\n" +
	"2) If the answer is not in the context, say exactly: " +
	"\"I don't know based on the uploaded documents.\" \n" +
	"3) Keep the answer concise.\n" +
	"4) After the answer, add a 'Sources:' section listing the sources used " +
	"(use source filename and chunk_id).\n" +
	"Do not invent facts."

// Temperature is the sampling temperature for grounded answers
const Temperature float32 = 0.2

// Defaults for Options
const (
	DefaultMaxContextChars = 12000
	DefaultTimeout         = 4 * time.Second
)

// Completer runs one chat completion and classifies its result
type Completer interface {
	Complete(ctx context.Context, req llm.Request) llm.Outcome
}

// Result is a final answer with its citations and elapsed time
type Result struct {
	Text      string        `json:"answer" yaml:"answer"`
	Citations []string      `json:"citations" yaml:"citations"`
	Latency   time.Duration `json:"latency" yaml:"latency"`
}

// Options configures an Engine. A nil Completer means no chat model is
// configured and every answer with hits is the excerpt fallback.
type Options struct {
	Completer       Completer
	MaxContextChars int
	Timeout         time.Duration
	Logger          *log.Logger
}

// Engine produces grounded answers
type Engine struct {
	completer       Completer
	maxContextChars int
	timeout         time.Duration
	logger          *log.Logger
}

// NewEngine creates an Engine, applying defaults for zero options
func NewEngine(opts Options) *Engine {
	if opts.MaxContextChars <= 0 {
		opts.MaxContextChars = DefaultMaxContextChars
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Engine{
		completer:       opts.Completer,
		maxContextChars: opts.MaxContextChars,
		timeout:         opts.Timeout,
		logger:          opts.Logger.WithPrefix("answer"),
	}
}

// HasModel reports whether a chat model is configured
func (e *Engine) HasModel() bool {
	return e.completer != nil
}

// UserPrompt formats the user turn for a question and its context
func UserPrompt(question, contextText string) string {
	return fmt.Sprintf("QUESTION:\n%s\n\nCONTEXT:\n%s\n", question, contextText)
}

// Answer answers question from hits. It never fails: model problems resolve
// to the excerpt fallback.
func (e *Engine) Answer(ctx context.Context, question string, hits []models.Hit) Result {
	start := time.Now()
	if strings.TrimSpace(question) == "" {
		return Result{Text: EmptyQuestion, Citations: []string{}}
	}

	citations := models.Citations(hits)
	if len(hits) == 0 {
		return Result{Text: DontKnow, Citations: []string{}, Latency: time.Since(start)}
	}

	if e.completer == nil {
		return Result{Text: FallbackAnswer(hits), Citations: citations, Latency: time.Since(start)}
	}

	out := e.completer.Complete(ctx, llm.Request{
		System:      SystemPrompt,
		User:        UserPrompt(question, BuildContext(hits, e.maxContextChars)),
		Temperature: Temperature,
		Timeout:     e.timeout,
	})

	if out.Kind == llm.OK && strings.TrimSpace(out.Text) != "" {
		elapsed := time.Since(start)
		e.logger.Info("LLM answered", "elapsed", elapsed.Round(time.Millisecond))
		return Result{Text: strings.TrimSpace(out.Text), Citations: citations, Latency: elapsed}
	}

	if out.Kind.Transient() {
		e.logger.Warn("LLM unavailable, falling back to excerpts", "kind", out.Kind, "error", out.Err)
	} else {
		e.logger.Error("unexpected LLM error, falling back", "kind", out.Kind, "error", fmt.Sprintf("%+v", out.Err))
	}
	return Result{Text: FallbackAnswer(hits), Citations: citations, Latency: time.Since(start)}
}
