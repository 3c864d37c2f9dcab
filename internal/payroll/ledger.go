package payroll

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ss6051/shift-payroll/backend/internal/config"
)

// Ledger 记录某次结算已经投递过工资单的员工，消息重新投递时跳过这些员工
type Ledger interface {
	IsPublished(ctx context.Context, runID string, accountID int64) (bool, error)
	MarkPublished(ctx context.Context, runID string, accountID int64) error
}

type RedisLedger struct {
	rdb        redis.Cmdable
	timeout    time.Duration
	expiration time.Duration
}

func NewRedisLedger(cfg *config.Config, rdb redis.Cmdable) *RedisLedger {
	return &RedisLedger{
		rdb:        rdb,
		timeout:    time.Duration(cfg.Redis.OperationExpiration) * time.Second,
		expiration: time.Duration(cfg.Payroll.LedgerExpiration) * time.Second,
	}
}

func ledgerKey(runID string) string {
	return fmt.Sprintf("payroll_run_%s_published", runID)
}

func (l *RedisLedger) IsPublished(ctx context.Context, runID string, accountID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	return l.rdb.SIsMember(ctx, ledgerKey(runID), strconv.FormatInt(accountID, 10)).Result()
}

func (l *RedisLedger) MarkPublished(ctx context.Context, runID string, accountID int64) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	key := ledgerKey(runID)
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, key, strconv.FormatInt(accountID, 10))
		pipe.Expire(ctx, key, l.expiration)
		return nil
	})
	return err
}
