package domain

import "time"

// PayrollRunMessage 是投递到工资结算队列中的消息
type PayrollRunMessage struct {
	RunID       string    `json:"runID"`
	StoreID     int64     `json:"storeID"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	RequestedBy int64     `json:"requestedBy"` // 定时任务触发时为 0
}
