package refundsla

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
)

// AuditRepository источник записей журнала платежей
type AuditRepository interface {
	ListByAction(ctx context.Context, action domain.AuditAction, from, to time.Time) ([]*domain.PaymentAuditLog, error)
}

// Metrics интерфейс метрик SLA
type Metrics interface {
	IncRefundSLABreach()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Config параметры монитора
type Config struct {
	Interval  time.Duration // период проверки
	Threshold time.Duration // возраст записи, после которого SLA считается нарушенным
	Lookback  time.Duration // насколько далеко в прошлое смотреть
}

// Alert нарушение SLA по возврату
type Alert struct {
	AuditID     uuid.UUID
	BookingID   uuid.UUID
	AmountCents int64
	IssuedAt    time.Time
}

// Monitor периодически ищет возвраты старше порога SLA.
// Каждая запись журнала сообщается один раз за время жизни процесса.
type Monitor struct {
	auditRepo AuditRepository
	metrics   Metrics
	logger    Logger
	cfg       Config
	now       func() time.Time
	reported  map[uuid.UUID]time.Time
}

// NewMonitor создает монитор SLA возвратов
func NewMonitor(auditRepo AuditRepository, metrics Metrics, logger Logger, cfg Config) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = 5 * time.Minute
	}
	if cfg.Lookback <= cfg.Threshold {
		cfg.Lookback = 24 * time.Hour
	}
	return &Monitor{
		auditRepo: auditRepo,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
		reported:  make(map[uuid.UUID]time.Time),
	}
}

// Run запускает проверки по таймеру до отмены контекста
func (m *Monitor) Run(ctx context.Context) {
	m.logger.Info("RefundSLAMonitor: started (interval=%s, threshold=%s)", m.cfg.Interval, m.cfg.Threshold)

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("RefundSLAMonitor: stopped")
			return
		case <-ticker.C:
			if _, err := m.Check(ctx); err != nil {
				m.logger.Error("RefundSLAMonitor: check failed: %v", err)
			}
		}
	}
}

// Check выполняет одну проверку и возвращает новые нарушения
func (m *Monitor) Check(ctx context.Context) ([]Alert, error) {
	now := m.now()
	from := now.Add(-m.cfg.Lookback)
	to := now.Add(-m.cfg.Threshold)

	entries, err := m.auditRepo.ListByAction(ctx, domain.AuditRefundIssued, from, to)
	if err != nil {
		return nil, err
	}

	alerts := make([]Alert, 0)
	for _, e := range entries {
		if _, ok := m.reported[e.ID]; ok {
			continue
		}
		m.reported[e.ID] = e.CreatedAt

		alerts = append(alerts, Alert{
			AuditID:     e.ID,
			BookingID:   e.BookingID,
			AmountCents: e.AmountCents,
			IssuedAt:    e.CreatedAt,
		})
		m.logger.Warn("RefundSLAMonitor: refund SLA exceeded for booking id=%s amount=%d issued at %s",
			e.BookingID, e.AmountCents, e.CreatedAt.Format(time.RFC3339))
		m.metrics.IncRefundSLABreach()
	}

	// записи за пределами окна больше не вернутся
	for id, issuedAt := range m.reported {
		if issuedAt.Before(from) {
			delete(m.reported, id)
		}
	}

	return alerts, nil
}
