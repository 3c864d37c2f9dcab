package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/ss6051/shift-payroll/backend/internal/config"
	"github.com/ss6051/shift-payroll/backend/internal/repository"
	"github.com/ss6051/shift-payroll/backend/internal/seed"
	"github.com/ss6051/shift-payroll/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var storeID int64
	var file string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机账户, 2: 插入随机门店及员工, 3: 从 CSV 导入工作记录)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&storeID, "store-id", 0, "导入工作记录的门店 ID")
	flag.StringVar(&file, "file", "./work_intervals.csv", "工作记录 CSV 文件路径")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的账户数量")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			account, err := utils.GenerateRandomAccount(cfg.Seed.Account.Password, cfg.Email.UserDomain)
			if err != nil {
				slog.Error("无法生成随机账户", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateAccount(account); err != nil {
				slog.Error("无法插入账户", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入账户成功", slog.Int("count", cnt))
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
			return
		}
		seed.SeedStore(repo, cfg, n)
	case 3:
		if storeID <= 0 {
			slog.Error("请输入合法的门店 ID")
			return
		}
		seed.ImportWorkIntervals(repo, file, storeID)
	default:
		slog.Error("指定的操作非法")
	}
}
