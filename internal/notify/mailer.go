package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogMailer - заглушка почтового транспорта: пишет события в лог. Боевой
// транспорт живет в сервисе уведомлений и подставляется вместо нее при
// сборке приложения.
type LogMailer struct {
	Logger *zap.Logger
}

func (m LogMailer) Send(_ context.Context, event Event) error {
	m.Logger.Info("notification",
		zap.String("type", string(event.Type)),
		zap.String("jobId", event.JobID),
		zap.String("jobTitle", event.JobTitle),
		zap.String("actor", event.ActorName),
		zap.Float64("amount", event.Amount))
	return nil
}
