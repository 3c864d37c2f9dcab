package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ss6051/shift-payroll/backend/internal/config"
	"github.com/ss6051/shift-payroll/backend/internal/domain"
	"github.com/ss6051/shift-payroll/backend/internal/wage"
)

// Publisher 是消息队列的发布端，*amqp.Channel 满足该接口
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Directory 提供生成工资单邮件所需的门店和账户信息
type Directory interface {
	GetStoreByID(id int64) (*domain.Store, error)
	GetAccountByID(id int64) (*domain.Account, error)
}

// ErrMalformedMessage 表示队列中的消息无法解析，重新投递也不会成功
var ErrMalformedMessage = errors.New("malformed payroll run message")

// Processor 处理工资结算队列中的消息：计算门店所有成员的工资并给每人投递一封工资单邮件
type Processor struct {
	cfg        *config.Config
	calculator *wage.Calculator
	directory  Directory
	publisher  Publisher
	ledger     Ledger
	logger     *slog.Logger
}

func NewProcessor(cfg *config.Config, calculator *wage.Calculator, directory Directory, publisher Publisher, ledger Ledger, logger *slog.Logger) *Processor {
	return &Processor{
		cfg:        cfg,
		calculator: calculator,
		directory:  directory,
		publisher:  publisher,
		ledger:     ledger,
		logger:     logger,
	}
}

// HandleDelivery 处理一条消息并负责 ack：
// 成功时 ack，重试也不会改变结果的错误直接丢弃，其余错误重新入队
func (p *Processor) HandleDelivery(ctx context.Context, d amqp.Delivery) {
	msg := domain.PayrollRunMessage{}
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		p.logger.Error("工资结算消息反序列化失败", slog.String("error", err.Error()))
		_ = d.Nack(false, false)
		return
	}

	if err := p.Process(ctx, msg); err != nil {
		requeue := retryable(err)
		p.logger.Error("工资结算失败",
			slog.String("run_id", msg.RunID),
			slog.Int64("store_id", msg.StoreID),
			slog.Bool("requeue", requeue),
			slog.String("error", err.Error()),
		)
		_ = d.Nack(false, requeue)
		return
	}

	_ = d.Ack(false)
}

// retryable 判断错误是否可能在重新投递后消失。
// 计算是确定性的，输入有问题或者拆分算法出错时重试只会得到同样的结果。
func retryable(err error) bool {
	return !errors.Is(err, ErrMalformedMessage) &&
		!wage.IsClientError(err) &&
		!errors.Is(err, wage.ErrInternalInvariant)
}

func (p *Processor) Process(ctx context.Context, msg domain.PayrollRunMessage) error {
	if msg.RunID == "" || msg.StoreID == 0 {
		return ErrMalformedMessage
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(p.cfg.Payroll.RunTimeout)*time.Second)
	defer cancel()

	store, err := p.directory.GetStoreByID(msg.StoreID)
	if err != nil {
		return fmt.Errorf("get store %d: %w", msg.StoreID, err)
	}

	payslips, err := p.calculator.CalculateStorePayroll(ctx, msg.StoreID, msg.StartDate, msg.EndDate)
	if err != nil {
		return err
	}

	skipped := 0
	for _, payslip := range payslips {
		// 上一次投递中途失败时，已经发出的工资单不再重复发送
		published, err := p.ledger.IsPublished(ctx, msg.RunID, payslip.AccountID)
		if err != nil {
			return fmt.Errorf("check published payslip for account %d: %w", payslip.AccountID, err)
		}
		if published {
			skipped++
			continue
		}

		account, err := p.directory.GetAccountByID(payslip.AccountID)
		if err != nil {
			return fmt.Errorf("get account %d: %w", payslip.AccountID, err)
		}

		messageID := fmt.Sprintf("%s:%d", msg.RunID, payslip.AccountID)
		if err := p.publishMail(ctx, messageID, NewPayslipMail(account, store, payslip)); err != nil {
			return err
		}

		if err := p.ledger.MarkPublished(ctx, msg.RunID, payslip.AccountID); err != nil {
			return fmt.Errorf("mark published payslip for account %d: %w", payslip.AccountID, err)
		}
	}

	p.logger.Info("工资结算完成",
		slog.String("run_id", msg.RunID),
		slog.Int64("store_id", msg.StoreID),
		slog.Int("payslips", len(payslips)),
		slog.Int("skipped", skipped),
	)

	return nil
}

// NewPayslipMail 根据工资单生成邮件消息
func NewPayslipMail(account *domain.Account, store *domain.Store, payslip *wage.Payslip) domain.MailMessage {
	return domain.MailMessage{
		Type: domain.MailTypePayslip,
		To:   account.Email,
		Data: domain.PayslipMailData{
			FullName:              account.FullName,
			StoreName:             store.Name,
			StartDate:             payslip.StartDate.Format(time.DateOnly),
			EndDate:               payslip.EndDate.Format(time.DateOnly),
			DayMinutes:            payslip.DayMinutes,
			NightMinutes:          payslip.NightMinutes,
			HolidayAllowanceWeeks: payslip.HolidayAllowanceWeeks,
			BaseWage:              payslip.BaseWage,
			HolidayAllowance:      payslip.HolidayAllowance,
			Total:                 payslip.Total,
		},
	}
}

func (p *Processor) publishMail(ctx context.Context, messageID string, mailMessage domain.MailMessage) error {
	body, err := json.Marshal(mailMessage)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(p.cfg.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return p.publisher.PublishWithContext(
		ctx,
		"",
		p.cfg.RabbitMQ.MailQueue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Body:         body,
		},
	)
}
