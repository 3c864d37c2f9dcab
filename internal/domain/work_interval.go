package domain

import "time"

// WorkInterval 是一段实际工作记录，同一员工的记录允许重叠
type WorkInterval struct {
	ID        int64     `json:"id"`
	StoreID   int64     `json:"storeID"`
	AccountID int64     `json:"accountID"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
