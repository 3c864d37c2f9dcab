package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/ss6051/shift-payroll/backend/internal/config"
	"github.com/ss6051/shift-payroll/backend/internal/payroll"
	"github.com/ss6051/shift-payroll/backend/internal/repository"
	"github.com/ss6051/shift-payroll/backend/internal/wage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer pingCancel()

	if err := dbpool.PingContext(pingCtx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)
	calculator := wage.NewCalculator(repo.WageSource(), logger, cfg.Payroll.Concurrency)

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:    cfg.Redis.Password,
		DB:          0,
		DialTimeout: time.Duration(cfg.Redis.ConnectTimeout) * time.Second,
	})
	defer rdb.Close()

	redisCtx, redisCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.ConnectTimeout)*time.Second)
	defer redisCancel()

	if err := rdb.Ping(redisCtx).Err(); err != nil {
		logger.Error("无法连接到 redis", "error", err)
		return
	}

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	// 消费和发布使用不同的通道，避免发布阻塞消费
	consumeCh, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer consumeCh.Close()

	publishCh, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer publishCh.Close()

	for _, queue := range []string{cfg.RabbitMQ.MailQueue, cfg.RabbitMQ.PayrollQueue} {
		if _, err := consumeCh.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			logger.Error("无法声明队列", slog.String("queue", queue), slog.String("error", err.Error()))
			return
		}
	}

	// 一次只处理一个结算任务，单个任务内部已经是并发计算
	if err := consumeCh.Qos(1, 0, false); err != nil {
		logger.Error("无法设置 QoS", slog.String("error", err.Error()))
		return
	}

	msgs, err := consumeCh.Consume(
		cfg.RabbitMQ.PayrollQueue,
		"",
		false, // 手动确认
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("无法消费消息", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 启动定时任务
	 **********************************************/
	scheduler, err := payroll.NewScheduler(cfg, repo, publishCh, logger)
	if err != nil {
		logger.Error("无法创建定时任务", slog.String("error", err.Error()))
		return
	}
	scheduler.Start()
	defer scheduler.Stop()

	processor := payroll.NewProcessor(cfg, calculator, repo, publishCh, payroll.NewRedisLedger(cfg, rdb), logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Error("消息通道已关闭")
					return
				}
				logger.Info("收到工资结算消息", slog.String("message", string(msg.Body)))
				processor.HandleDelivery(ctx, msg)
			}
		}
	}()

	logger.Info("等待工资结算消息...（按 CTRL+C 退出）")
	<-sigChan

	logger.Info("正在关闭 payroll worker...")
	cancel()
	wg.Wait()
	logger.Info("payroll worker 已成功关闭")
}
