// ABOUTME: Assistant orchestrates the document QA pipeline
// ABOUTME: Ingest files into the index, and answer questions from retrieved chunks
package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/harper/docqa/internal/answer"
	"github.com/harper/docqa/internal/index"
	"github.com/harper/docqa/internal/ingest"
	"github.com/harper/docqa/internal/logging"
	"github.com/harper/docqa/internal/models"
)

// DefaultTopK is the number of chunks retrieved per question
const DefaultTopK = 4

// File is an uploaded document
type File struct {
	Name string
	Data []byte
}

// FileReport is the outcome of indexing one file
type FileReport struct {
	Source string `json:"source" yaml:"source"`
	Chunks int    `json:"chunks" yaml:"chunks"`
}

// IngestReport summarizes one ingestion batch. On failure it lists the files
// indexed before the failing one; those stay indexed.
type IngestReport struct {
	BatchID     string        `json:"batch_id" yaml:"batch_id"`
	Reset       bool          `json:"reset" yaml:"reset"`
	Files       []FileReport  `json:"files" yaml:"files"`
	TotalChunks int           `json:"total_chunks" yaml:"total_chunks"`
	Elapsed     time.Duration `json:"elapsed" yaml:"elapsed"`
}

// AskResult is an answer plus what it was built from
type AskResult struct {
	Question  string        `json:"question" yaml:"question"`
	Answer    string        `json:"answer" yaml:"answer"`
	Citations []string      `json:"citations" yaml:"citations"`
	Hits      []models.Hit  `json:"hits" yaml:"hits"`
	Retrieval time.Duration `json:"retrieval" yaml:"retrieval"`
	Latency   time.Duration `json:"latency" yaml:"latency"`
	Total     time.Duration `json:"total" yaml:"total"`
}

// Options configures an Assistant
type Options struct {
	TopK   int
	Logger *log.Logger
}

// Assistant ties ingestion, the index, and the answer engine together.
// Writes (ingest, reset) are serialized; reads run concurrently.
type Assistant struct {
	ingestor *ingest.Ingestor
	index    *index.Index
	engine   *answer.Engine
	topK     int
	logger   *log.Logger
	mu       sync.Mutex
}

// NewAssistant creates an Assistant
func NewAssistant(ingestor *ingest.Ingestor, ix *index.Index, engine *answer.Engine, opts Options) *Assistant {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Assistant{
		ingestor: ingestor,
		index:    ix,
		engine:   engine,
		topK:     opts.TopK,
		logger:   opts.Logger.WithPrefix("assistant"),
	}
}

// TopK returns the configured retrieval depth
func (a *Assistant) TopK() int {
	return a.topK
}

// HasModel reports whether answers can come from a chat model
func (a *Assistant) HasModel() bool {
	return a.engine.HasModel()
}

// IngestFiles indexes files in order, resetting the index first when reset
// is set. The first failure stops the batch.
func (a *Assistant) IngestFiles(ctx context.Context, files []File, reset bool) (IngestReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	report := IngestReport{BatchID: uuid.NewString(), Reset: reset, Files: []FileReport{}}
	logger := a.logger.With("batch", report.BatchID)

	if reset {
		if err := a.index.Reset(ctx); err != nil {
			return report, err
		}
	}

	for _, f := range files {
		chunks, err := a.ingestor.Ingest(f.Name, f.Data)
		if err != nil {
			report.Elapsed = time.Since(start)
			return report, fmt.Errorf("ingesting %s: %w", f.Name, err)
		}
		n, err := a.index.Add(ctx, chunks)
		if err != nil {
			report.Elapsed = time.Since(start)
			return report, fmt.Errorf("indexing %s: %w", f.Name, err)
		}
		report.Files = append(report.Files, FileReport{Source: f.Name, Chunks: n})
		report.TotalChunks += n
		logger.Info("indexed file", "source", f.Name, "chunks", n)
	}

	report.Elapsed = time.Since(start)
	logger.Info("ingest complete", "files", len(report.Files), "chunks", report.TotalChunks, "elapsed", report.Elapsed.Round(time.Millisecond))
	return report, nil
}

// IngestPaths reads files from disk and ingests them under their base names.
// Unreadable or unsupported files fail before anything is indexed.
func (a *Assistant) IngestPaths(ctx context.Context, paths []string, reset bool) (IngestReport, error) {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		name, data, err := ingest.ReadFile(p)
		if err != nil {
			return IngestReport{Files: []FileReport{}}, err
		}
		files = append(files, File{Name: name, Data: data})
	}
	return a.IngestFiles(ctx, files, reset)
}

// Ask retrieves the top chunks for question and answers from them.
// Retrieval errors are returned; chat model failures never are.
func (a *Assistant) Ask(ctx context.Context, question string) (AskResult, error) {
	start := time.Now()
	result := AskResult{Question: question, Hits: []models.Hit{}}

	if strings.TrimSpace(question) == "" {
		res := a.engine.Answer(ctx, question, nil)
		result.Answer, result.Citations = res.Text, res.Citations
		return result, nil
	}

	hits, err := a.index.Query(ctx, question, a.topK)
	if err != nil {
		return result, err
	}
	result.Retrieval = time.Since(start)
	result.Hits = hits

	res := a.engine.Answer(ctx, question, hits)
	result.Answer = res.Text
	result.Citations = res.Citations
	result.Latency = res.Latency
	result.Total = time.Since(start)

	a.logger.Debug("answered", "hits", len(hits), "retrieval", result.Retrieval, "latency", result.Latency)
	return result, nil
}

// Search returns the k nearest chunks without answering
func (a *Assistant) Search(ctx context.Context, query string, k int) ([]models.Hit, error) {
	if k <= 0 {
		k = a.topK
	}
	return a.index.Query(ctx, query, k)
}

// Reset empties the index
func (a *Assistant) Reset(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.index.Reset(ctx)
}

// Sources lists indexed documents
func (a *Assistant) Sources(ctx context.Context) ([]models.SourceInfo, error) {
	return a.index.Sources(ctx)
}
