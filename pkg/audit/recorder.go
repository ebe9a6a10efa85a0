package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"mercator-hq/saturn/pkg/engine"
)

// RecorderConfig configures the audit recorder.
type RecorderConfig struct {
	// Enabled enables recording. A disabled recorder accepts and drops
	// everything, so call sites need no branching.
	Enabled bool

	// AsyncBuffer is the size of the write channel. When the buffer is full
	// the record is dropped rather than stalling the decision path.
	// Default: 1000.
	AsyncBuffer int

	// WriteTimeout bounds each storage write. Default: 5 seconds.
	WriteTimeout time.Duration
}

// DefaultRecorderConfig returns the default recorder configuration.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		Enabled:      true,
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder converts policy decisions into audit records and writes them to
// storage from a background worker.
type Recorder struct {
	storage Storage
	config  RecorderConfig
	logger  *slog.Logger

	recordChan chan *Record
	done       chan struct{}
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// NewRecorder creates a recorder and starts its background worker.
func NewRecorder(storage Storage, config RecorderConfig, logger *slog.Logger) *Recorder {
	if config.AsyncBuffer <= 0 {
		config.AsyncBuffer = DefaultRecorderConfig().AsyncBuffer
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultRecorderConfig().WriteTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		logger:     logger.With("component", "audit.recorder"),
		recordChan: make(chan *Record, config.AsyncBuffer),
		done:       make(chan struct{}),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("audit recorder initialized",
		"enabled", config.Enabled,
		"async_buffer", config.AsyncBuffer,
		"write_timeout", config.WriteTimeout,
	)
	return r
}

// Record queues one decision for persistence. evalErr carries the engine's
// rejection when the request never produced a decision.
func (r *Recorder) Record(req *engine.Request, decision engine.Decision, stats engine.EvaluationStats, duration time.Duration, evalErr error) {
	if !r.config.Enabled {
		return
	}

	record := buildRecord(req, decision, stats, duration, evalErr)

	select {
	case r.recordChan <- record:
	default:
		// Auditing must not stall decisions; a full buffer means the
		// backend is behind and this record is lost.
		r.logger.Warn("audit buffer full, dropping record", "record_id", record.ID)
	}
}

// Close drains the buffer and stops the worker.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		close(r.done)
		r.wg.Wait()
	})
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.write(record)
		case <-r.done:
			// Drain whatever is still queued before exiting.
			for {
				select {
				case record := <-r.recordChan:
					r.write(record)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(record *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store audit record",
			"record_id", record.ID,
			"error", err,
		)
	}
}

// buildRecord assembles a Record from one evaluation.
func buildRecord(req *engine.Request, decision engine.Decision, stats engine.EvaluationStats, duration time.Duration, evalErr error) *Record {
	record := &Record{
		ID:             uuid.New().String(),
		Timestamp:      time.Now().UTC(),
		Effect:         decision.Effect.String(),
		ReasonCode:     uint32(decision.Reason),
		RulesChecked:   stats.RulesChecked,
		ConditionEvals: stats.ConditionEvals,
		Duration:       duration,
	}
	if evalErr != nil {
		record.Error = evalErr.Error()
	}
	if req == nil {
		return record
	}

	record.Principal = req.Principal
	record.Action = req.Action
	record.Resource = req.Resource

	attrs := req.Attributes()
	if len(attrs) > 0 {
		record.Context = make(map[string]any, len(attrs))
		for _, attr := range attrs {
			switch attr.Value.Kind() {
			case engine.ValueString:
				record.Context[attr.Name] = attr.Value.Str()
			case engine.ValueInt:
				record.Context[attr.Name] = attr.Value.Int()
			case engine.ValueBool:
				record.Context[attr.Name] = attr.Value.Bool()
			}
		}
	}
	return record
}
