package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aescanero/netqa-router/internal/config"
	"github.com/aescanero/netqa-router/internal/dispatch"
)

// stopTimeout bounds how long Stop waits for the in-flight query
const stopTimeout = 5 * time.Second

// Dispatcher answers one query
type Dispatcher interface {
	Dispatch(ctx context.Context, text string, opts dispatch.Options) dispatch.Envelope
}

// Worker consumes queries from a Redis stream and publishes answers
type Worker struct {
	id            string
	config        *config.Config
	redisClient   *redis.Client
	dispatcher    Dispatcher
	logger        *zap.Logger
	ctx           context.Context
	cancel        context.CancelFunc
	done          chan struct{}
	stopOnce      sync.Once
	streamKey     string
	consumerGroup string
	resultStream  string
}

// NewWorker creates a new worker
func NewWorker(
	cfg *config.Config,
	redisClient *redis.Client,
	dispatcher Dispatcher,
	logger *zap.Logger,
) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		id:            cfg.WorkerID,
		config:        cfg,
		redisClient:   redisClient,
		dispatcher:    dispatcher,
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
		streamKey:     cfg.StreamKey,
		consumerGroup: cfg.ConsumerGroup,
		resultStream:  cfg.ResultStream,
	}
}

// Start starts the worker
func (w *Worker) Start() error {
	w.logger.Info("starting query worker",
		zap.String("worker_id", w.id),
		zap.String("stream_key", w.streamKey),
		zap.String("consumer_group", w.consumerGroup),
	)

	if err := w.ensureConsumerGroup(); err != nil {
		return fmt.Errorf("failed to ensure consumer group: %w", err)
	}

	go w.processWork()

	w.logger.Info("query worker started", zap.String("worker_id", w.id))
	return nil
}

// Stop cancels the read loop and waits for the in-flight query to finish
func (w *Worker) Stop() error {
	w.logger.Info("stopping query worker", zap.String("worker_id", w.id))

	w.stopOnce.Do(w.cancel)

	select {
	case <-w.done:
	case <-time.After(stopTimeout):
		return fmt.Errorf("worker %s did not stop within %s", w.id, stopTimeout)
	}

	w.logger.Info("query worker stopped", zap.String("worker_id", w.id))
	return nil
}

// ensureConsumerGroup creates the consumer group if it doesn't exist
func (w *Worker) ensureConsumerGroup() error {
	err := w.redisClient.XGroupCreateMkStream(w.ctx, w.streamKey, w.consumerGroup, "0").Err()
	if err != nil {
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			w.logger.Debug("consumer group already exists",
				zap.String("group", w.consumerGroup),
			)
			return nil
		}
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	w.logger.Info("created consumer group",
		zap.String("group", w.consumerGroup),
		zap.String("stream", w.streamKey),
	)
	return nil
}

// processWork reads queries until the worker is stopped
func (w *Worker) processWork() {
	defer close(w.done)
	w.logger.Info("starting query processing loop")

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Info("query processing loop stopped")
			return
		default:
			streams, err := w.redisClient.XReadGroup(w.ctx, &redis.XReadGroupArgs{
				Group:    w.consumerGroup,
				Consumer: w.id,
				Streams:  []string{w.streamKey, ">"},
				Count:    1,
				Block:    w.config.BlockTime,
			}).Result()

			if err != nil {
				if errors.Is(err, redis.Nil) || w.ctx.Err() != nil {
					continue
				}
				w.logger.Error("failed to read from stream",
					zap.Error(err),
				)
				time.Sleep(time.Second)
				continue
			}

			for _, stream := range streams {
				for _, message := range stream.Messages {
					w.handleMessage(message)
				}
			}
		}
	}
}

// handleMessage answers a single query message. Malformed messages go to
// the errors stream; every message is acknowledged.
func (w *Worker) handleMessage(message redis.XMessage) {
	messageID := message.ID
	w.logger.Info("processing query",
		zap.String("message_id", messageID),
	)

	request, err := ParseQueryRequest(message.Values)
	if err != nil {
		w.logger.Error("failed to parse query request",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
		w.publishError(messageID, request, err)
		w.acknowledgeMessage(messageID)
		return
	}

	env := w.dispatcher.Dispatch(w.ctx, request.Query, dispatch.Options{
		Vendor:    request.Vendor,
		RequestID: request.RequestID,
	})

	if err := w.publishAnswer(env); err != nil {
		w.logger.Error("failed to publish answer",
			zap.String("message_id", messageID),
			zap.String("request_id", env.RequestID),
			zap.Error(err),
		)
		w.publishError(messageID, request, err)
	}

	w.acknowledgeMessage(messageID)
}

// QueryRequest is one question read from the query stream
type QueryRequest struct {
	RequestID string `json:"request_id"`
	Query     string `json:"query"`
	Vendor    string `json:"vendor,omitempty"`
}

// ParseQueryRequest decodes the "data" field of a stream message. A missing
// request id is filled with a fresh uuid.
func ParseQueryRequest(values map[string]interface{}) (*QueryRequest, error) {
	dataStr, ok := values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'data' field")
	}

	var request QueryRequest
	if err := json.Unmarshal([]byte(dataStr), &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal query request: %w", err)
	}

	if strings.TrimSpace(request.Query) == "" {
		return &request, fmt.Errorf("query is empty")
	}

	if request.RequestID == "" {
		request.RequestID = uuid.New().String()
	}

	return &request, nil
}

// answerValues builds the stream entry for an envelope
func answerValues(env dispatch.Envelope) (map[string]interface{}, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return map[string]interface{}{
		"request_id": env.RequestID,
		"intent":     string(env.Intent),
		"data":       string(data),
	}, nil
}

// publishAnswer appends the envelope to the result stream
func (w *Worker) publishAnswer(env dispatch.Envelope) error {
	values, err := answerValues(env)
	if err != nil {
		return err
	}

	_, err = w.redisClient.XAdd(w.ctx, &redis.XAddArgs{
		Stream: w.resultStream,
		Values: values,
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to publish to stream: %w", err)
	}

	w.logger.Info("published answer",
		zap.String("request_id", env.RequestID),
		zap.String("intent", string(env.Intent)),
		zap.Bool("degraded", env.Degraded),
	)
	return nil
}

// errorEvent builds the errors-stream payload. request may be nil.
func errorEvent(messageID string, request *QueryRequest, err error, now time.Time) map[string]interface{} {
	event := map[string]interface{}{
		"message_id": messageID,
		"error":      err.Error(),
		"timestamp":  now.UTC(),
	}
	if request != nil {
		event["request_id"] = request.RequestID
		event["query"] = request.Query
	}
	return event
}

// publishError publishes an error event
func (w *Worker) publishError(messageID string, request *QueryRequest, err error) {
	data, marshalErr := json.Marshal(errorEvent(messageID, request, err, time.Now()))
	if marshalErr != nil {
		w.logger.Error("failed to marshal error event", zap.Error(marshalErr))
		return
	}

	_, publishErr := w.redisClient.XAdd(w.ctx, &redis.XAddArgs{
		Stream: w.resultStream + ".errors",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()

	if publishErr != nil {
		w.logger.Error("failed to publish error event", zap.Error(publishErr))
	}
}

// acknowledgeMessage acknowledges a message from the stream
func (w *Worker) acknowledgeMessage(messageID string) {
	// ack even after Stop so the message is not redelivered
	err := w.redisClient.XAck(context.Background(), w.streamKey, w.consumerGroup, messageID).Err()
	if err != nil {
		w.logger.Error("failed to acknowledge message",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
	}
}
