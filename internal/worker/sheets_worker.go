package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"eventdesk/internal/database"
	"eventdesk/internal/metrics"
	"eventdesk/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	TaskAppend       = "append"
	TaskUpdateStatus = "update_status"
)

// sheetTaskPayload is persisted in SyncTask.Payload as JSON. Exactly one of
// Contact/Quote is set for append tasks.
type sheetTaskPayload struct {
	RequestType string                 `json:"request_type"`
	RequestID   string                 `json:"request_id"`
	Contact     *models.ContactRequest `json:"contact,omitempty"`
	Quote       *models.QuoteRequest   `json:"quote,omitempty"`
	Status      string                 `json:"status,omitempty"`
}

// SheetsClient is the slice of the sheets surface the worker needs.
type SheetsClient interface {
	AppendContactRequest(ctx context.Context, req *models.ContactRequest) error
	AppendQuoteRequest(ctx context.Context, req *models.QuoteRequest) error
	UpdateRequestStatus(ctx context.Context, requestType, requestID, status string) error
}

// SheetsWorker mirrors request rows into the back-office spreadsheet. Tasks
// are persisted in sync_queue first, then scheduled through redis with an
// in-memory channel fallback; the db poll picks up whatever both queues lose.
type SheetsWorker struct {
	db            *database.DB
	sheets        SheetsClient
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan models.SyncTask
	redisQueueKey string
	deadLetterKey string
	pollInterval  time.Duration
	batchSize     int
	logger        *log.Logger
}

// NewSheetsWorker builds a worker with sane defaults.
func NewSheetsWorker(db *database.DB, sheets SheetsClient, redisClient *redis.Client, retry RetryPolicy, logger *log.Logger) *SheetsWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}
	if logger == nil {
		logger = log.Default()
	}

	return &SheetsWorker{
		db:            db,
		sheets:        sheets,
		redis:         redisClient,
		retryPolicy:   retry,
		queue:         make(chan models.SyncTask, 128),
		redisQueueKey: "sheets:queue",
		deadLetterKey: "sheets:deadletter",
		pollInterval:  2 * time.Second,
		batchSize:     20,
		logger:        logger,
	}
}

// EnqueueRequestCreated schedules an append of a fresh submission. payload
// must be a *models.ContactRequest or *models.QuoteRequest.
func (w *SheetsWorker) EnqueueRequestCreated(ctx context.Context, requestType string, payload interface{}) error {
	task := sheetTaskPayload{RequestType: requestType}
	switch req := payload.(type) {
	case *models.ContactRequest:
		task.Contact = req
		task.RequestID = req.ID
	case *models.QuoteRequest:
		task.Quote = req
		task.RequestID = req.ID
	default:
		return fmt.Errorf("unsupported payload type %T", payload)
	}
	return w.enqueue(ctx, TaskAppend, task)
}

// EnqueueStatusChanged schedules a status cell update for an existing row.
func (w *SheetsWorker) EnqueueStatusChanged(ctx context.Context, requestType, requestID, status string) error {
	if requestID == "" || status == "" {
		return errors.New("request id and status are required")
	}
	return w.enqueue(ctx, TaskUpdateStatus, sheetTaskPayload{
		RequestType: requestType,
		RequestID:   requestID,
		Status:      status,
	})
}

func (w *SheetsWorker) enqueue(ctx context.Context, taskType string, payload sheetTaskPayload) error {
	if !models.IsKnownRequestType(payload.RequestType) {
		return fmt.Errorf("unknown request type: %s", payload.RequestType)
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	syncTask := models.SyncTask{
		TaskType:    taskType,
		RequestType: payload.RequestType,
		RequestID:   payload.RequestID,
		Payload:     string(payloadBytes),
		Status:      "pending",
	}

	if err := w.db.CreateSyncTask(ctx, &syncTask); err != nil {
		return fmt.Errorf("persist sync task: %w", err)
	}

	// Try redis first for durability.
	if w.redis != nil {
		if err := w.pushRedis(ctx, syncTask); err != nil {
			w.logger.Printf("sheets_worker: redis push failed, fallback to memory queue: %v", err)
		} else {
			return nil
		}
	}

	// Fallback to in-memory queue if redis missing or failed.
	select {
	case w.queue <- syncTask:
	default:
		w.logger.Printf("sheets_worker: in-memory queue full, task %d dropped to polling", syncTask.ID)
	}

	return nil
}

// Start launches main loop; stops when ctx is done.
func (w *SheetsWorker) Start(ctx context.Context) {
	w.logger.Printf("sheets_worker: started")
	defer w.logger.Printf("sheets_worker: stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if t, ok := w.tryLocalQueue(); ok {
			w.processTask(ctx, &t)
			continue
		}

		if t, ok := w.tryRedis(ctx); ok {
			w.processTask(ctx, &t)
			continue
		}

		tasks, err := w.db.GetPendingSyncTasks(ctx, w.batchSize)
		if err != nil {
			w.logger.Printf("sheets_worker: fetch pending: %v", err)
			time.Sleep(w.pollInterval)
			continue
		}
		if len(tasks) == 0 {
			time.Sleep(w.pollInterval)
			continue
		}

		for i := range tasks {
			w.processTask(ctx, &tasks[i])
		}
	}
}

func (w *SheetsWorker) tryLocalQueue() (models.SyncTask, bool) {
	select {
	case t := <-w.queue:
		return t, true
	default:
		return models.SyncTask{}, false
	}
}

func (w *SheetsWorker) tryRedis(ctx context.Context) (models.SyncTask, bool) {
	if w.redis == nil {
		return models.SyncTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, w.redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) {
			return models.SyncTask{}, false
		}
		w.logger.Printf("sheets_worker: redis BRPOP error: %v", err)
		return models.SyncTask{}, false
	}
	if len(res) != 2 {
		return models.SyncTask{}, false
	}
	var task models.SyncTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Printf("sheets_worker: decode redis task: %v", err)
		return models.SyncTask{}, false
	}
	return task, true
}

func (w *SheetsWorker) processTask(ctx context.Context, task *models.SyncTask) {
	payload, err := w.decodePayload(task.Payload)
	if err != nil {
		w.failTask(ctx, task, fmt.Errorf("decode payload: %w", err))
		return
	}

	if err := w.handleSheetTask(ctx, task.TaskType, payload); err != nil {
		w.retryOrFail(ctx, task, err)
		return
	}

	metrics.IncSyncTask("completed")
	if err := w.db.UpdateSyncTaskStatus(ctx, task.ID, "completed", task.RetryCount, "", nil); err != nil {
		w.logger.Printf("sheets_worker: mark completed %d: %v", task.ID, err)
	}
}

func (w *SheetsWorker) handleSheetTask(ctx context.Context, taskType string, payload sheetTaskPayload) error {
	switch taskType {
	case TaskAppend:
		switch {
		case payload.Contact != nil:
			return w.sheets.AppendContactRequest(ctx, payload.Contact)
		case payload.Quote != nil:
			return w.sheets.AppendQuoteRequest(ctx, payload.Quote)
		default:
			return errors.New("request payload missing")
		}
	case TaskUpdateStatus:
		if payload.RequestID == "" || payload.Status == "" {
			return errors.New("request id or status missing")
		}
		return w.sheets.UpdateRequestStatus(ctx, payload.RequestType, payload.RequestID, payload.Status)
	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}
}

func (w *SheetsWorker) retryOrFail(ctx context.Context, task *models.SyncTask, cause error) {
	attempt := task.RetryCount + 1
	if attempt >= w.retryPolicy.MaxRetries {
		metrics.IncSyncTask("dead_letter")
		if err := w.db.UpdateSyncTaskStatus(ctx, task.ID, "failed", attempt, cause.Error(), nil); err != nil {
			w.logger.Printf("sheets_worker: mark failed %d: %v", task.ID, err)
		}
		w.pushDeadLetter(ctx, task)
		return
	}

	metrics.IncSyncTask("retry")
	nextDelay := w.retryPolicy.NextDelay(attempt)
	nextTime := time.Now().Add(nextDelay)
	if err := w.db.UpdateSyncTaskStatus(ctx, task.ID, "retry", attempt, cause.Error(), &nextTime); err != nil {
		w.logger.Printf("sheets_worker: mark retry %d: %v", task.ID, err)
	}
}

func (w *SheetsWorker) failTask(ctx context.Context, task *models.SyncTask, cause error) {
	metrics.IncSyncTask("dead_letter")
	if err := w.db.UpdateSyncTaskStatus(ctx, task.ID, "failed", task.RetryCount, cause.Error(), nil); err != nil {
		w.logger.Printf("sheets_worker: mark failed %d: %v", task.ID, err)
	}
	w.pushDeadLetter(ctx, task)
}

func (w *SheetsWorker) decodePayload(raw string) (sheetTaskPayload, error) {
	var payload sheetTaskPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}

func (w *SheetsWorker) pushRedis(ctx context.Context, task models.SyncTask) error {
	if w.redis == nil {
		return errors.New("redis client is nil")
	}
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, w.redisQueueKey, data).Err()
}

func (w *SheetsWorker) pushDeadLetter(ctx context.Context, task *models.SyncTask) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		w.logger.Printf("sheets_worker: encode deadletter %d: %v", task.ID, err)
		return
	}
	if err := w.redis.LPush(ctx, w.deadLetterKey, data).Err(); err != nil {
		w.logger.Printf("sheets_worker: deadletter push %d: %v", task.ID, err)
	}
}
