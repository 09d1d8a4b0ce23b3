package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"chatdocs/internal/cache"
	"chatdocs/internal/model"
	"chatdocs/internal/repository"
)

// HistoryPurgeWorker consumes purge jobs and deletes the matching chat
// records. Deletes are idempotent, so redelivery after a crash is safe.
type HistoryPurgeWorker struct {
	conn      *amqp.Connection
	repo      *repository.ChatRecordRepository
	histCache *cache.HistoryCache
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewHistoryPurgeWorker(conn *amqp.Connection, repo *repository.ChatRecordRepository, histCache *cache.HistoryCache, queueName string) *HistoryPurgeWorker {
	return &HistoryPurgeWorker{
		conn:      conn,
		repo:      repo,
		histCache: histCache,
		queueName: queueName,
	}
}

func (w *HistoryPurgeWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare purge queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume purge queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var job model.PurgeJob
				if err := json.Unmarshal(d.Body, &job); err != nil {
					log.Printf("worker decode purge job failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				if err := w.purge(workerCtx, job); err != nil {
					log.Printf("worker purge history failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *HistoryPurgeWorker) purge(ctx context.Context, job model.PurgeJob) error {
	if job.UserID == 0 {
		return fmt.Errorf("purge job has no user id")
	}

	if job.PDFName != "" {
		if err := w.repo.DeleteByUserAndDocument(ctx, job.UserID, job.PDFName); err != nil {
			return err
		}
		if w.histCache != nil {
			_ = w.histCache.DeleteHistory(ctx, job.UserID, job.PDFName)
		}
		return nil
	}

	if err := w.repo.DeleteAllByUser(ctx, job.UserID); err != nil {
		return err
	}
	if w.histCache != nil {
		_ = w.histCache.PurgeUser(ctx, job.UserID)
	}
	return nil
}

func (w *HistoryPurgeWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
