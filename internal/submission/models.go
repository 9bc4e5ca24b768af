package submission

import (
	"survey-collector/internal/common/logger"
)

// Output is the dispatcher's aggregated batch result. Success means
// every record in the batch was accepted by the sink.
type Output struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	RowsForwarded int    `json:"rowsForwarded"`
	SubmissionID  string `json:"submissionId,omitempty"`
}

// Response is the JSON envelope returned to the submitting client.
// Errors carries the field-path -> message map on validation failure.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type ServiceDependencies struct {
	Logger logger.Logger
	Sink   Sink
}
