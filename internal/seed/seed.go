package seed

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ss6051/shift-payroll/backend/internal/config"
	"github.com/ss6051/shift-payroll/backend/internal/domain"
	"github.com/ss6051/shift-payroll/backend/internal/repository"
	"github.com/ss6051/shift-payroll/backend/internal/utils"
)

// CSV 中时间的格式，不带时区
const csvTimeLayout = "2006-01-02 15:04"

var workIntervalHeaders = []string{"用户名", "开始时间", "结束时间"}

// ParseWorkIntervalCSV 解析打卡记录导出的 CSV，表头必须包含 用户名、开始时间、结束时间 三列。
// lookup 用于把用户名转换成账户 ID。
func ParseWorkIntervalCSV(r io.Reader, storeID int64, lookup func(username string) (int64, error)) ([]*domain.WorkInterval, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}

	columns := make(map[string]int)
	for i, header := range headers {
		columns[strings.TrimSpace(header)] = i
	}
	for _, header := range workIntervalHeaders {
		if _, ok := columns[header]; !ok {
			return nil, fmt.Errorf("没有找到 %s 列", header)
		}
	}

	intervals := make([]*domain.WorkInterval, 0)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("第 %d 行读取失败: %w", line, err)
		}

		accountID, err := lookup(row[columns["用户名"]])
		if err != nil {
			return nil, fmt.Errorf("第 %d 行的用户 %q 无效: %w", line, row[columns["用户名"]], err)
		}

		start, err := time.Parse(csvTimeLayout, row[columns["开始时间"]])
		if err != nil {
			return nil, fmt.Errorf("第 %d 行的开始时间格式错误", line)
		}
		end, err := time.Parse(csvTimeLayout, row[columns["结束时间"]])
		if err != nil {
			return nil, fmt.Errorf("第 %d 行的结束时间格式错误", line)
		}

		iv := &domain.WorkInterval{
			StoreID:   storeID,
			AccountID: accountID,
			Start:     start,
			End:       end,
		}
		if err := utils.ValidateWorkInterval(iv); err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", line, err)
		}

		intervals = append(intervals, iv)
	}

	return intervals, nil
}

// ImportWorkIntervals 把 CSV 文件中的打卡记录导入到指定门店
func ImportWorkIntervals(r *repository.Repository, path string, storeID int64) {
	file, err := os.Open(path)
	if err != nil {
		slog.Error("打开文件失败", "error", err)
		return
	}
	defer file.Close()

	intervals, err := ParseWorkIntervalCSV(file, storeID, func(username string) (int64, error) {
		account, err := r.GetAccountByUsername(username)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, errors.New("用户不存在")
			}
			return 0, err
		}
		return account.ID, nil
	})
	if err != nil {
		slog.Error("解析打卡记录失败", "error", err)
		return
	}

	cnt := 0
	for _, iv := range intervals {
		if err := r.CreateWorkInterval(iv); err != nil {
			slog.Error("插入工作记录失败", "account_id", iv.AccountID, "start", iv.Start, "error", err)
			continue
		}
		cnt++
	}

	slog.Info("导入工作记录完成", "count", cnt)
}

// SeedStore 创建一个门店以及店主和 n 名员工，并为每名员工生成约定工作时间和上个月的工作记录
func SeedStore(r *repository.Repository, cfg *config.Config, n int) {
	owner, err := utils.GenerateRandomAccount(cfg.Seed.Account.Password, cfg.Email.UserDomain)
	if err != nil {
		slog.Error("无法生成店主账户", "error", err)
		return
	}
	if err := r.CreateAccount(owner); err != nil {
		slog.Error("无法插入店主账户", "error", err)
		return
	}

	store := utils.GenerateRandomStore(owner.ID)
	if err := r.CreateStore(store); err != nil {
		slog.Error("无法插入门店", "error", err)
		return
	}

	from, to := utils.PreviousMonth(time.Now())
	to = to.AddDate(0, 0, 1)

	cnt := 0
	for i := 0; i < n; i++ {
		account, err := utils.GenerateRandomAccount(cfg.Seed.Account.Password, cfg.Email.UserDomain)
		if err != nil {
			slog.Error("无法生成员工账户", "error", err)
			continue
		}
		if err := r.CreateAccount(account); err != nil {
			slog.Error("无法插入员工账户", "error", err)
			continue
		}

		sa, err := r.AddStoreEmployee(store.ID, account.ID)
		if err != nil {
			slog.Error("无法加入门店", "error", err)
			continue
		}
		sa.BaseHourlyWage = utils.GenerateRandomHourlyWage()
		if err := r.UpdateStoreAccount(sa); err != nil {
			slog.Error("无法设置时薪", "error", err)
			continue
		}

		if err := r.ReplaceScheduledWorkDays(store.ID, account.ID, utils.GenerateRandomScheduledWorkDays(store.ID, account.ID)); err != nil {
			slog.Error("无法插入约定工作时间", "error", err)
			continue
		}

		for _, iv := range utils.GenerateRandomWorkIntervals(store.ID, account.ID, from, to) {
			if err := r.CreateWorkInterval(iv); err != nil {
				slog.Error("无法插入工作记录", "error", err)
			}
		}

		cnt++
	}

	slog.Info("插入门店成功", "store_id", store.ID, "owner", owner.Username, "employees", cnt)
}
