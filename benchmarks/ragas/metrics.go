// ABOUTME: RAGAS metrics implementation for faithfulness, context recall and citations
// ABOUTME: Simplified deterministic evaluation based on ground truth comparison

package ragas

import (
	"fmt"
	"strings"
)

// MetricsCalculator computes RAGAS scores for benchmark tests
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateFaithfulness computes faithfulness score (0.0-1.0)
// Faithfulness = Does the answer state the grounded fact and nothing invented?
func (m *MetricsCalculator) CalculateFaithfulness(
	response string,
	expectedInResponse []string,
	forbiddenInResponse []string,
) (float64, string) {
	responseUpper := strings.ToUpper(response)

	missingItems := []string{}
	for _, expected := range expectedInResponse {
		if !strings.Contains(responseUpper, strings.ToUpper(expected)) {
			missingItems = append(missingItems, expected)
		}
	}

	forbiddenFound := []string{}
	for _, forbidden := range forbiddenInResponse {
		if strings.Contains(responseUpper, strings.ToUpper(forbidden)) {
			forbiddenFound = append(forbiddenFound, forbidden)
		}
	}

	switch {
	case len(missingItems) == 0 && len(forbiddenFound) == 0:
		return 1.0, "Perfect faithfulness - response matches expected ground truth"
	case len(missingItems) > 0 && len(forbiddenFound) > 0:
		return 0.0, fmt.Sprintf(
			"Faithfulness failure - missing expected items: %v, forbidden items found: %v",
			missingItems, forbiddenFound,
		)
	case len(missingItems) > 0:
		return 0.5, fmt.Sprintf("Partial faithfulness - missing expected items: %v", missingItems)
	default:
		return 0.5, fmt.Sprintf("Partial faithfulness - forbidden items found: %v", forbiddenFound)
	}
}

// CalculateContextRecall computes context recall score (0.0-1.0)
// Context Recall = Were the chunks holding the answer retrieved?
func (m *MetricsCalculator) CalculateContextRecall(
	retrievedContext []string,
	expectedContextItems []string,
) (float64, string) {
	if len(expectedContextItems) == 0 {
		return 1.0, "No context retrieval required"
	}

	allContext := strings.ToUpper(strings.Join(retrievedContext, " "))

	foundCount := 0
	missingItems := []string{}
	for _, expectedItem := range expectedContextItems {
		if strings.Contains(allContext, strings.ToUpper(expectedItem)) {
			foundCount++
		} else {
			missingItems = append(missingItems, expectedItem)
		}
	}

	recall := float64(foundCount) / float64(len(expectedContextItems))
	if recall == 1.0 {
		return 1.0, "Perfect context recall - all expected items retrieved"
	}

	return recall, fmt.Sprintf("Partial context recall (%.2f) - missing items: %v", recall, missingItems)
}

// CalculateCitationCoverage computes the share of expected sources that
// appear among the citations ("{source}#chunk{n}")
func (m *MetricsCalculator) CalculateCitationCoverage(
	citations []string,
	expectedSources []string,
) (float64, string) {
	if len(expectedSources) == 0 {
		return 1.0, "No citations required"
	}

	cited := make(map[string]bool, len(citations))
	for _, c := range citations {
		source, _, _ := strings.Cut(c, "#chunk")
		cited[source] = true
	}

	missing := []string{}
	for _, s := range expectedSources {
		if !cited[s] {
			missing = append(missing, s)
		}
	}

	coverage := float64(len(expectedSources)-len(missing)) / float64(len(expectedSources))
	if len(missing) == 0 {
		return 1.0, "All expected sources cited"
	}
	return coverage, fmt.Sprintf("Missing citations for: %v", missing)
}

// EvaluateTest runs full RAGAS evaluation for a test
func (m *MetricsCalculator) EvaluateTest(
	scenario TestScenario,
	finalResponse string,
	retrievedContext []string,
	citations []string,
) TestResult {
	faithfulness, faithfulnessDetail := m.CalculateFaithfulness(
		finalResponse,
		scenario.GroundTruth.ExpectedInResponse,
		scenario.GroundTruth.ForbiddenInResponse,
	)

	recall, recallDetail := m.CalculateContextRecall(
		retrievedContext,
		scenario.GroundTruth.ExpectedContextItems,
	)

	citationScore, citationDetail := m.CalculateCitationCoverage(
		citations,
		scenario.GroundTruth.ExpectedSources,
	)

	overallScore := (faithfulness + recall) / 2.0

	// Both core metrics must reach 0.9 and every expected source must be cited
	status := "FAIL"
	if faithfulness >= 0.9 && recall >= 0.9 && citationScore == 1.0 {
		status = "PASS"
	}

	return TestResult{
		TestID:             scenario.ID,
		TestName:           scenario.Name,
		FaithfulnessScore:  faithfulness,
		ContextRecallScore: recall,
		CitationScore:      citationScore,
		OverallScore:       overallScore,
		Status:             status,
		Details: map[string]interface{}{
			"faithfulness_detail": faithfulnessDetail,
			"recall_detail":       recallDetail,
			"citation_detail":     citationDetail,
			"final_response":      preview(finalResponse, 200),
			"context_items":       len(retrievedContext),
			"citations":           citations,
		},
	}
}

// preview returns at most n runes of s
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}
