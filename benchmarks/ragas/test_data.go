// ABOUTME: Test scenario data structures for RAGAS benchmarks
// ABOUTME: Defines the documents, question, and ground truth for each document QA test

package ragas

// TestScenario represents a complete RAGAS benchmark test
type TestScenario struct {
	ID          string
	Name        string
	Description string
	Documents   []Document
	Question    string
	GroundTruth GroundTruth
}

// Document is a file ingested before the question is asked
type Document struct {
	Name    string
	Content string
}

// GroundTruth defines expected outcomes for RAGAS evaluation
type GroundTruth struct {
	ExpectedInResponse  []string // Strings that MUST appear in the answer
	ForbiddenInResponse []string // Strings that MUST NOT appear in the answer

	// Context retrieval expectations
	ExpectedContextItems []string // Text that should be in the retrieved chunks
	ExpectedSources      []string // Documents that should be cited
}

// TestResult represents the outcome of a benchmark test
type TestResult struct {
	TestID             string                 `json:"test_id"`
	TestName           string                 `json:"test_name"`
	FaithfulnessScore  float64                `json:"faithfulness_score"`
	ContextRecallScore float64                `json:"context_recall_score"`
	CitationScore      float64                `json:"citation_score"`
	OverallScore       float64                `json:"overall_score"`
	Status             string                 `json:"status"` // "PASS" or "FAIL"
	Details            map[string]interface{} `json:"details"`
	ErrorMessage       string                 `json:"error_message,omitempty"`
}

var policyDocuments = []Document{
	{
		Name: "refunds.md",
		Content: "# Refund policy\n\n" +
			"Customers may request a refund within 30 days of delivery. " +
			"Refunds are issued to the original payment method once the item is received.",
	},
	{
		Name: "shipping.txt",
		Content: "Standard shipping takes five business days. " +
			"Express shipping takes two business days and costs extra.",
	},
	{
		Name: "warranty.txt",
		Content: "The hardware warranty lasts two years from the date of purchase. " +
			"Accidental damage is not covered by the warranty.",
	},
}

// GetTest1A returns Test 1A: single-document fact lookup
func GetTest1A() TestScenario {
	return TestScenario{
		ID:          "1a",
		Name:        "Refund Window Lookup",
		Description: "The answer is stated once in one of three short policy documents.",
		Documents:   policyDocuments,
		Question:    "Within how many days can a customer request a refund?",
		GroundTruth: GroundTruth{
			ExpectedInResponse:   []string{"30 days"},
			ForbiddenInResponse:  []string{"60 days", "90 days"},
			ExpectedContextItems: []string{"within 30 days of delivery"},
			ExpectedSources:      []string{"refunds.md"},
		},
	}
}

// GetTest2A returns Test 2A: fact lookup with distracting numbers in other documents
func GetTest2A() TestScenario {
	return TestScenario{
		ID:          "2a",
		Name:        "Warranty Term Among Distractors",
		Description: "Other documents mention durations too; the answer must use the warranty term.",
		Documents:   policyDocuments,
		Question:    "How long does the hardware warranty last?",
		GroundTruth: GroundTruth{
			ExpectedInResponse:   []string{"two years"},
			ForbiddenInResponse:  []string{"five years", "one year"},
			ExpectedContextItems: []string{"two years from the date of purchase"},
			ExpectedSources:      []string{"warranty.txt"},
		},
	}
}

// GetTest3A returns Test 3A: nothing indexed
func GetTest3A() TestScenario {
	return TestScenario{
		ID:          "3a",
		Name:        "Empty Index",
		Description: "With no documents the system must say it does not know instead of guessing.",
		Documents:   nil,
		Question:    "What is the refund window?",
		GroundTruth: GroundTruth{
			ExpectedInResponse:  []string{"I don't know"},
			ForbiddenInResponse: []string{"30 days"},
		},
	}
}

// GetAllTests returns all RAGAS benchmark tests
func GetAllTests() []TestScenario {
	return []TestScenario{
		GetTest1A(),
		GetTest2A(),
		GetTest3A(),
	}
}

// GetTest returns the scenario with the given ID
func GetTest(id string) (TestScenario, bool) {
	for _, s := range GetAllTests() {
		if s.ID == id {
			return s, true
		}
	}
	return TestScenario{}, false
}
