package payroll

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"
	"github.com/ss6051/shift-payroll/backend/internal/config"
	"github.com/ss6051/shift-payroll/backend/internal/domain"
	"github.com/ss6051/shift-payroll/backend/internal/utils"
)

type StoreLister interface {
	GetAllStores() ([]*domain.Store, error)
}

// Scheduler 按照 cron 表达式定期为所有门店提交上一个自然月的工资结算
type Scheduler struct {
	cron      *cron.Cron
	cfg       *config.Config
	stores    StoreLister
	publisher Publisher
	location  *time.Location
	logger    *slog.Logger
}

func NewScheduler(cfg *config.Config, stores StoreLister, publisher Publisher, logger *slog.Logger) (*Scheduler, error) {
	location, err := time.LoadLocation(cfg.Payroll.Timezone)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		cron:      cron.New(cron.WithSeconds(), cron.WithLocation(location)),
		cfg:       cfg,
		stores:    stores,
		publisher: publisher,
		location:  location,
		logger:    logger,
	}

	if _, err := s.cron.AddFunc(cfg.Payroll.Schedule, func() {
		if err := s.EnqueuePreviousMonth(time.Now().In(location)); err != nil {
			s.logger.Error("提交月度工资结算失败", slog.String("error", err.Error()))
		}
	}); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("工资结算定时任务已启动", slog.String("schedule", s.cfg.Payroll.Schedule), slog.String("timezone", s.location.String()))
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("工资结算定时任务已停止")
}

// EnqueuePreviousMonth 为每个门店投递一条 now 所在月份的上一个自然月的结算消息
func (s *Scheduler) EnqueuePreviousMonth(now time.Time) error {
	start, end := utils.PreviousMonth(now)

	stores, err := s.stores.GetAllStores()
	if err != nil {
		return err
	}

	for _, store := range stores {
		msg := domain.PayrollRunMessage{
			RunID:     uuid.NewString(),
			StoreID:   store.ID,
			StartDate: start,
			EndDate:   end,
		}

		body, err := json.Marshal(msg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.RabbitMQ.PublishTimeout)*time.Second)
		err = s.publisher.PublishWithContext(ctx, "", s.cfg.RabbitMQ.PayrollQueue, true, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		})
		cancel()
		if err != nil {
			return err
		}

		s.logger.Info("已提交月度工资结算", slog.String("run_id", msg.RunID), slog.Int64("store_id", store.ID))
	}

	return nil
}
