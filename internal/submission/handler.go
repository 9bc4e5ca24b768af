package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"survey-collector/internal/common/config"
	"survey-collector/internal/common/errors"
	"survey-collector/internal/common/logger"
	"survey-collector/internal/common/metrics"
	"survey-collector/internal/common/observability"
	"survey-collector/internal/common/webhook"
)

// Handler serves POST /api/submit: it validates the submission,
// consults the optional duplicate guard, and hands the typed
// submission to the dispatcher. Every error path collapses into one
// user-facing message; raw fault details stay in the logs.
type Handler struct {
	config     *Config
	logger     logger.Logger
	dispatcher *Dispatcher
	dedupe     *Deduper
	obs        *observability.Observability
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Logger        logger.Logger
	Sink          Sink
	Dedupe        *Deduper
	Observability *observability.Observability
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	handlerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := handlerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for submission handler: %w", err)
	}

	var loggerInstance logger.Logger
	if opts.Logger != nil {
		loggerInstance = opts.Logger
	} else {
		loggerInstance = logger.NewStructured("info", "json")
	}

	sink := opts.Sink
	if sink == nil {
		sink = webhook.NewClient(handlerConfig.Timeout)
	}

	handler := &Handler{
		config: handlerConfig,
		logger: loggerInstance,
		dedupe: opts.Dedupe,
		obs:    opts.Observability,
	}

	handler.dispatcher = NewDispatcher(ServiceDependencies{
		Logger: loggerInstance,
		Sink:   sink,
	}, handlerConfig)

	return handler, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeResponse(w, http.StatusMethodNotAllowed, Response{
			Success: false,
			Message: "Method not allowed",
		})
		return
	}

	startTime := time.Now()
	metrics.SubmissionsReceived.Inc()
	metrics.SubmissionsActive.Inc()
	defer metrics.SubmissionsActive.Dec()
	defer func() {
		metrics.SubmissionDuration.Observe(time.Since(startTime).Seconds())
	}()

	if !h.config.Enabled {
		writeResponse(w, http.StatusServiceUnavailable, Response{
			Success: false,
			Message: "Submission intake is disabled",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.failRequest(ctx, w, startTime, errors.NewInvalidSubmissionError("request body is not valid JSON"))
		return
	}

	// Envelope shape check before any field-level validation: the
	// businesses key must be a list or nothing else is worth checking.
	if _, ok := payload["businesses"].([]interface{}); !ok {
		h.failRequest(ctx, w, startTime, errors.NewInvalidSubmissionError("businesses is not an array"))
		return
	}

	sub, validationResult := ParseSubmission(payload)
	if sub == nil {
		fieldErrors := validationResult.FieldMap()
		violations := make(map[string]interface{}, len(fieldErrors))
		for field, message := range fieldErrors {
			violations[field] = message
		}
		stdErr := errors.NewValidationFailedError(violations)

		h.logger.Warn("Submission rejected by validation", map[string]interface{}{
			"violations": validationResult.GetErrorMessages(),
		})
		metrics.SubmissionsFailed.WithLabelValues(string(stdErr.Code)).Inc()
		h.recordOutcome(ctx, startTime, "rejected")
		writeResponse(w, stdErr.HTTPStatus(), Response{
			Success: false,
			Message: stdErr.Message,
			Errors:  fieldErrors,
		})
		return
	}

	var fingerprint string
	if h.dedupe != nil {
		fingerprint = Fingerprint(sub)
		seen, err := h.dedupe.Seen(ctx, fingerprint)
		if err != nil {
			// Availability wins over the guard: a broken dedupe store
			// must not block forwarding.
			h.logger.Warn("Duplicate check unavailable, continuing", map[string]interface{}{
				"error": err.Error(),
			})
		} else if seen {
			h.failRequest(ctx, w, startTime, errors.NewDuplicateSubmissionError(fingerprint))
			return
		}
	}

	output, err := h.dispatcher.Dispatch(ctx, sub)
	if err != nil {
		h.failRequest(ctx, w, startTime, err)
		return
	}

	if h.dedupe != nil && fingerprint != "" {
		_ = h.dedupe.Mark(ctx, fingerprint)
	}

	metrics.SubmissionsCompleted.Inc()
	h.recordOutcome(ctx, startTime, "completed")
	if h.obs != nil {
		h.obs.RecordRowsForwarded(ctx, output.RowsForwarded)
	}

	h.logger.Info("Submission completed", map[string]interface{}{
		"submissionId":  output.SubmissionID,
		"rowsForwarded": output.RowsForwarded,
	})

	writeResponse(w, http.StatusOK, Response{Success: true})
}

// failRequest translates any error into the single user-facing
// message and status for its code, keeping details in the logs only.
func (h *Handler) failRequest(ctx context.Context, w http.ResponseWriter, startTime time.Time, err error) {
	stdErr := errors.FromError(err)

	h.logger.Error("Submission failed", map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"details":   stdErr.Details,
	})

	metrics.SubmissionsFailed.WithLabelValues(string(stdErr.Code)).Inc()
	h.recordOutcome(ctx, startTime, "failed")

	writeResponse(w, stdErr.HTTPStatus(), Response{
		Success: false,
		Message: stdErr.Message,
	})
}

func (h *Handler) recordOutcome(ctx context.Context, startTime time.Time, status string) {
	if h.obs == nil {
		return
	}
	h.obs.RecordSubmissionProcessed(ctx, status)
	h.obs.RecordSubmissionDuration(ctx, time.Since(startTime), status)
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func writeResponse(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
