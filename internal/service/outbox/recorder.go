package outbox

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
	"github.com/vladislavdragonenkov/shopcheck/internal/metrics"
)

// Recorder ставит доменные события в outbox от имени сервисов.
// Ошибка постановки не отменяет бизнес-операцию: она логируется.
// nil-Recorder ничего не делает.
type Recorder struct {
	repo    domain.OutboxRepository
	metrics *metrics.ShopMetrics
	logger  *log.Entry
}

// NewRecorder создаёт Recorder поверх репозитория outbox.
func NewRecorder(repo domain.OutboxRepository, m *metrics.ShopMetrics, logger *log.Entry) *Recorder {
	if logger == nil {
		logger = log.WithField("component", "outbox-recorder")
	}
	return &Recorder{repo: repo, metrics: m, logger: logger}
}

// Record сериализует событие и кладёт его в outbox вне транзакции бизнес-операции.
func (r *Recorder) Record(ctx context.Context, aggregateType, aggregateID, eventType string, event any) {
	if r == nil || r.repo == nil {
		return
	}

	msg, err := domain.NewOutboxMessage(aggregateType, aggregateID, eventType, event)
	if err == nil {
		_, err = r.repo.Enqueue(ctx, msg)
	}
	if err != nil {
		r.logger.WithError(err).WithFields(log.Fields{
			"event_type":   eventType,
			"aggregate_id": aggregateID,
		}).Warn("failed to enqueue outbox event")
		return
	}
	r.metrics.RecordOutboxEvent()
}
