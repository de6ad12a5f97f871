package payroll

// BatchOutcome classifies the result of one item in a bulk operation.
type BatchOutcome string

const (
	BatchOutcomeSuccess BatchOutcome = "success"
	BatchOutcomeWarning BatchOutcome = "warning"
	BatchOutcomeError   BatchOutcome = "error"
)

type BatchItemResult struct {
	ID       string       `json:"id"`
	Outcome  BatchOutcome `json:"outcome"`
	Message  string       `json:"message"`
	RecordID *string      `json:"record_id,omitempty"`
}

// BatchResult accumulates per-item outcomes of a best-effort batch.
type BatchResult struct {
	BatchID      string            `json:"batch_id"`
	SuccessCount int               `json:"success_count"`
	WarningCount int               `json:"warning_count"`
	ErrorCount   int               `json:"error_count"`
	Items        []BatchItemResult `json:"items"`
}

func NewBatchResult(batchID string, size int) *BatchResult {
	return &BatchResult{
		BatchID: batchID,
		Items:   make([]BatchItemResult, 0, size),
	}
}

func (r *BatchResult) Success(id, recordID, message string) {
	r.SuccessCount++
	r.Items = append(r.Items, BatchItemResult{ID: id, Outcome: BatchOutcomeSuccess, Message: message, RecordID: &recordID})
}

func (r *BatchResult) Warn(id, message string) {
	r.WarningCount++
	r.Items = append(r.Items, BatchItemResult{ID: id, Outcome: BatchOutcomeWarning, Message: message})
}

func (r *BatchResult) Fail(id, message string) {
	r.ErrorCount++
	r.Items = append(r.Items, BatchItemResult{ID: id, Outcome: BatchOutcomeError, Message: message})
}
