// ABOUTME: Test runner for RAGAS benchmarks - executes scenarios and collects results
// ABOUTME: Ingests each scenario's documents into an isolated index, asks, and scores the answer

package ragas

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harper/docqa/internal/app"
	"github.com/harper/docqa/internal/config"
	"github.com/harper/docqa/internal/core"
	"github.com/harper/docqa/internal/logging"
)

// BenchmarkRunner executes RAGAS benchmark tests
type BenchmarkRunner struct {
	cfg     *config.Config
	metrics *MetricsCalculator
	logger  *log.Logger
	verbose bool
}

// NewBenchmarkRunner creates a new benchmark runner. Each test gets a copy
// of cfg with its own data dir and collection.
func NewBenchmarkRunner(cfg *config.Config, logger *log.Logger, verbose bool) *BenchmarkRunner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &BenchmarkRunner{
		cfg:     cfg,
		metrics: NewMetricsCalculator(),
		logger:  logger.WithPrefix("bench"),
		verbose: verbose,
	}
}

// RunTest executes a single benchmark test
func (r *BenchmarkRunner) RunTest(ctx context.Context, scenario TestScenario) (TestResult, error) {
	if r.verbose {
		fmt.Printf("\n========================================\n")
		fmt.Printf("RUNNING: %s\n", scenario.Name)
		fmt.Printf("========================================\n")
		fmt.Printf("Description: %s\n\n", scenario.Description)
	}

	tmpDir, err := os.MkdirTemp("", fmt.Sprintf("docqa_bench_%s_", scenario.ID))
	if err != nil {
		return TestResult{}, fmt.Errorf("failed to create test dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	cfg := *r.cfg
	cfg.DataDir = tmpDir
	cfg.Collection = fmt.Sprintf("bench_%s_%d", scenario.ID, time.Now().UnixNano())

	a, err := app.Build(ctx, &cfg, r.logger)
	if err != nil {
		return TestResult{}, fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer func() {
		_ = a.Store.DeleteCollection(ctx, cfg.Collection)
		_ = a.Close()
	}()

	files := make([]core.File, 0, len(scenario.Documents))
	for _, d := range scenario.Documents {
		files = append(files, core.File{Name: d.Name, Data: []byte(d.Content)})
	}
	report, err := a.Assistant.IngestFiles(ctx, files, true)
	if err != nil {
		return TestResult{}, fmt.Errorf("setup failed: %w", err)
	}
	if r.verbose {
		fmt.Printf("✓ Indexed %d document(s), %d chunk(s)\n", len(report.Files), report.TotalChunks)
		fmt.Printf("Question: %s\n", scenario.Question)
	}

	res, err := a.Assistant.Ask(ctx, scenario.Question)
	if err != nil {
		return TestResult{}, fmt.Errorf("ask failed: %w", err)
	}

	retrievedContext := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		retrievedContext = append(retrievedContext, hit.Chunk.Text)
	}

	if r.verbose {
		fmt.Printf("Answer: %s\n", preview(res.Answer, 300))
		fmt.Printf("Citations: %v\n", res.Citations)
	}

	result := r.metrics.EvaluateTest(scenario, res.Answer, retrievedContext, res.Citations)
	result.Details["model_answer"] = a.Assistant.HasModel()
	result.Details["latency_ms"] = res.Latency.Milliseconds()

	if r.verbose {
		fmt.Printf("\n========================================\n")
		fmt.Printf("RESULTS: %s\n", scenario.Name)
		fmt.Printf("========================================\n")
		fmt.Printf("Faithfulness: %.2f\n", result.FaithfulnessScore)
		fmt.Printf("Context Recall: %.2f\n", result.ContextRecallScore)
		fmt.Printf("Citations: %.2f\n", result.CitationScore)
		fmt.Printf("Overall Score: %.2f\n", result.OverallScore)
		fmt.Printf("Status: %s\n", result.Status)
		fmt.Printf("========================================\n\n")
	}

	return result, nil
}

// RunAllTests executes all benchmark tests
func (r *BenchmarkRunner) RunAllTests(ctx context.Context) ([]TestResult, error) {
	scenarios := GetAllTests()
	results := make([]TestResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result, err := r.RunTest(ctx, scenario)
		if err != nil {
			return nil, fmt.Errorf("test %s failed: %w", scenario.ID, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// Summary is the exported benchmark report
type Summary struct {
	Timestamp  string       `json:"timestamp"`
	TotalTests int          `json:"total_tests"`
	Passed     int          `json:"passed"`
	Failed     int          `json:"failed"`
	Results    []TestResult `json:"results"`
}

// Summarize counts passes and failures
func Summarize(results []TestResult) Summary {
	s := Summary{
		Timestamp:  time.Now().Format(time.RFC3339),
		TotalTests: len(results),
		Results:    results,
	}
	for _, result := range results {
		if result.Status == "PASS" {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// ExportResults exports test results to JSON
func (r *BenchmarkRunner) ExportResults(results []TestResult, outputPath string) error {
	jsonData, err := json.MarshalIndent(Summarize(results), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}

	r.logger.Info("results exported", "path", outputPath)
	return nil
}
