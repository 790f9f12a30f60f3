package error_notificator

import (
	"context"

	"go.uber.org/zap"
)

type Service struct {
	infra Notificator
	log   *zap.SugaredLogger
}

func NewService(infra Notificator, log *zap.SugaredLogger) *Service {
	return &Service{infra: infra, log: log}
}

// Notify никогда не роняет вызывающего: ошибка доставки только логируется
func (s *Service) Notify(ctx context.Context, err error, details string) error {
	if sendErr := s.infra.Notify(ctx, err, details); sendErr != nil {
		s.log.Warnw("[error_notificator] send fail", "error", sendErr, "original", err)
		return sendErr
	}
	return nil
}
