package domain

// ScheduledWorkDay 是员工一周中某一天的约定工作时间，不上班的日子开始和结束时间都为空
type ScheduledWorkDay struct {
	StoreID   int64   `json:"storeID"`
	AccountID int64   `json:"accountID"`
	DayOfWeek int32   `json:"dayOfWeek"` // 1~7 分别表示周一到周日
	StartTime *string `json:"startTime"` // 格式为 15:04:05
	EndTime   *string `json:"endTime"`
}
