package submission

import (
	"context"
	"fmt"
	"strings"
	"time"

	"survey-collector/internal/common/errors"
	"survey-collector/internal/common/logger"
	"survey-collector/internal/common/metrics"
	"survey-collector/internal/models"

	"github.com/google/uuid"
)

// timestampLayout formats the batch timestamp stamped on every row.
const timestampLayout = "2006-01-02 15:04:05"

// Sink delivers one flattened row to the configured endpoint.
type Sink interface {
	Forward(ctx context.Context, sinkURL, idempotencyKey string, row *models.Row) error
}

// Dispatcher forwards a validated submission to the sink, one row per
// business record, strictly in order with one request in flight at a
// time. The first failed delivery aborts the batch: records already
// delivered stay delivered, the failing one and everything after it
// are never sent. No retries, no rollback.
type Dispatcher struct {
	config *Config
	logger logger.Logger
	sink   Sink
}

func NewDispatcher(deps ServiceDependencies, config *Config) *Dispatcher {
	return &Dispatcher{
		config: config,
		logger: deps.Logger,
		sink:   deps.Sink,
	}
}

// Dispatch delivers every record of the submission. It returns a
// single aggregated result: success only when all rows were accepted.
func (d *Dispatcher) Dispatch(ctx context.Context, sub *models.Submission) (*Output, error) {
	if d.config.WebhookURL == "" {
		return nil, errors.NewWebhookNotConfiguredError()
	}

	submissionID := uuid.NewString()

	// One timestamp per batch: every row of this submission carries
	// the same date_and_time value.
	batchTime := time.Now().Format(timestampLayout)
	rows := BuildRows(sub, batchTime)

	d.logger.Info("Dispatching submission", map[string]interface{}{
		"submissionId": submissionID,
		"records":      len(rows),
	})

	for i := range rows {
		idempotencyKey := fmt.Sprintf("%s:%d", submissionID, i)

		start := time.Now()
		err := d.sink.Forward(ctx, d.config.WebhookURL, idempotencyKey, &rows[i])
		elapsed := time.Since(start)

		if err != nil {
			metrics.WebhookDeliveryDuration.WithLabelValues("error").Observe(elapsed.Seconds())
			d.logger.Error("Webhook delivery failed, aborting batch", map[string]interface{}{
				"submissionId": submissionID,
				"recordIndex":  i,
				"delivered":    i,
				"remaining":    len(rows) - i,
				"error":        err.Error(),
			})
			return nil, errors.NewWebhookDeliveryFailedError(i, err)
		}

		metrics.WebhookDeliveryDuration.WithLabelValues("ok").Observe(elapsed.Seconds())
		metrics.RowsForwarded.Inc()
	}

	d.logger.Info("Submission fully forwarded", map[string]interface{}{
		"submissionId": submissionID,
		"records":      len(rows),
	})

	return &Output{
		Success:       true,
		Message:       "All business records forwarded",
		RowsForwarded: len(rows),
		SubmissionID:  submissionID,
	}, nil
}

// BuildRows flattens the submission into sink-ready rows. Every field
// maps 1:1 by name; links join with ", " without filtering empties;
// the respondent name and the shared timestamp are copied onto every
// row. Optional fields that were never set stay empty strings.
func BuildRows(sub *models.Submission, dateAndTime string) []models.Row {
	rows := make([]models.Row, 0, len(sub.Businesses))
	for _, b := range sub.Businesses {
		rows = append(rows, models.Row{
			DateAndTime:           dateAndTime,
			Name:                  sub.Name,
			BusinessName:          b.BusinessName,
			BusinessCategory:      b.BusinessCategory,
			BusinessLink:          strings.Join(b.BusinessLink, ", "),
			BusinessWebsite:       b.BusinessWebsite,
			BusinessNumber:        b.BusinessNumber,
			BusinessAddress:       b.BusinessAddress,
			BusinessNote:          b.BusinessNote,
			BusinessOwnerName:     b.BusinessOwnerName,
			BusinessOwnerRelation: b.BusinessOwnerRelation,
		})
	}
	return rows
}
