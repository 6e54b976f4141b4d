package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type EventType string // Тип исходящего события

const (
	BidSubmitted EventType = "bid_submitted"
	BidWithdrawn EventType = "bid_withdrawn"
	JobAwarded   EventType = "job_awarded"
	JobStatusSet EventType = "job_status_set"
	JobCancelled EventType = "job_cancelled"
)

// Event - полезная нагрузка для сервиса уведомлений.
type Event struct {
	Type      EventType
	JobID     string
	JobTitle  string
	ActorName string
	City      string
	State     string
	Amount    float64
}

// Mailer отправляет одно уведомление. Реализация живет в сервисе
// уведомлений, ядро знает только интерфейс.
type Mailer interface {
	Send(ctx context.Context, event Event) error
}

// Dispatcher рассылает события после фиксации операции. Доставка
// асинхронная и негарантированная: ошибки логируются и не влияют на
// вызвавшую операцию.
type Dispatcher struct {
	mailer  Mailer
	logger  *zap.Logger
	events  chan Event
	timeout time.Duration
	wg      sync.WaitGroup
	once    sync.Once
}

// NewDispatcher создает диспетчер и запускает воркер отправки.
func NewDispatcher(mailer Mailer, logger *zap.Logger, buffer int) *Dispatcher {
	d := &Dispatcher{
		mailer:  mailer,
		logger:  logger,
		events:  make(chan Event, buffer),
		timeout: 10 * time.Second,
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// Publish ставит событие в очередь, не блокируя вызывающую сторону.
// При переполненной очереди событие теряется: доставка негарантированная.
func (d *Dispatcher) Publish(event Event) {
	select {
	case d.events <- event:
	default:
		d.logger.Warn("notification queue full, event dropped",
			zap.String("type", string(event.Type)),
			zap.String("jobId", event.JobID))
	}
}

// Close останавливает прием и дожидается отправки оставшихся событий.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.events)
	})
	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for event := range d.events {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.mailer.Send(ctx, event); err != nil {
			d.logger.Warn("failed to send notification",
				zap.String("type", string(event.Type)),
				zap.String("jobId", event.JobID),
				zap.Error(err))
		}
		cancel()
	}
}
