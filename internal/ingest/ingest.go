// ABOUTME: Ingestion pipeline converting raw file bytes into ordered Chunks
// ABOUTME: Dispatches on extension (.pdf, .txt, .md) and assigns chunk ids
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/harper/docqa/internal/logging"
	"github.com/harper/docqa/internal/models"
)

// ErrUnsupportedFileType is matched by UnsupportedFileTypeError via errors.Is
var ErrUnsupportedFileType = errors.New("unsupported file type")

// UnsupportedFileTypeError names the file whose extension is not supported
type UnsupportedFileTypeError struct {
	Filename string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.Filename)
}

// Is makes errors.Is(err, ErrUnsupportedFileType) work
func (e *UnsupportedFileTypeError) Is(target error) bool {
	return target == ErrUnsupportedFileType
}

// SupportedExtensions lists the extensions Ingest accepts
var SupportedExtensions = []string{".pdf", ".txt", ".md"}

// Options configures an Ingestor. Zero values select the defaults.
type Options struct {
	ChunkSize int
	Overlap   int
	PDF       PageExtractor
	Logger    *log.Logger
}

// Ingestor turns documents into chunks
type Ingestor struct {
	chunkSize int
	overlap   int
	pdf       PageExtractor
	logger    *log.Logger
}

// NewIngestor creates an Ingestor, validating the chunking parameters
func NewIngestor(opts Options) (*Ingestor, error) {
	if opts.ChunkSize == 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.ChunkSize < 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", opts.ChunkSize)
	}
	if opts.Overlap < 0 || opts.Overlap >= opts.ChunkSize {
		return nil, fmt.Errorf("overlap must be in [0, %d), got %d", opts.ChunkSize, opts.Overlap)
	}
	if opts.PDF == nil {
		opts.PDF = NewPDFExtractor()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Ingestor{
		chunkSize: opts.ChunkSize,
		overlap:   opts.Overlap,
		pdf:       opts.PDF,
		logger:    opts.Logger.WithPrefix("ingest"),
	}, nil
}

// IsSupported reports whether filename has an extension Ingest accepts
func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Ingest converts a file's bytes into chunks in document order.
// Chunk ids start at 0 and are dense across the whole document.
func (in *Ingestor) Ingest(filename string, data []byte) ([]models.Chunk, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return in.ingestPDF(filename, data)
	case ".txt", ".md":
		return in.ingestText(filename, data), nil
	default:
		return nil, &UnsupportedFileTypeError{Filename: filename}
	}
}

// ReadFile checks the extension of path and reads it, returning the base
// name documents are ingested and cited under
func ReadFile(path string) (string, []byte, error) {
	name := filepath.Base(path)
	if !IsSupported(name) {
		return "", nil, &UnsupportedFileTypeError{Filename: name}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return name, data, nil
}

func (in *Ingestor) ingestText(filename string, data []byte) []models.Chunk {
	parts := ChunkText(decodeText(data), in.chunkSize, in.overlap)
	chunks := make([]models.Chunk, 0, len(parts))
	for i, p := range parts {
		chunks = append(chunks, models.Chunk{Text: p, Source: filename, ChunkID: i})
	}
	in.logger.Info("ingested document", "source", filename, "chunks", len(chunks))
	return chunks
}

func (in *Ingestor) ingestPDF(filename string, data []byte) ([]models.Chunk, error) {
	pages, err := in.pdf.Pages(data)
	if err != nil {
		return nil, fmt.Errorf("reading PDF %s: %w", filename, err)
	}

	var chunks []models.Chunk
	chunkID := 0
	withText := 0
	for pageIdx, pageText := range pages {
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}
		withText++
		for _, part := range ChunkText(pageText, in.chunkSize, in.overlap) {
			chunks = append(chunks, models.Chunk{
				Text:    part,
				Source:  filename,
				ChunkID: chunkID,
				Page:    models.PageNumber(pageIdx),
			})
			chunkID++
		}
	}
	in.logger.Debug("parsed PDF", "source", filename, "pages", len(pages), "pages_with_text", withText)
	in.logger.Info("ingested document", "source", filename, "chunks", len(chunks))
	return chunks, nil
}
