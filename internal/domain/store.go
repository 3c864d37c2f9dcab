package domain

import "time"

type StoreRole string

const (
	StoreRoleOwner    StoreRole = "OWNER"
	StoreRoleManager  StoreRole = "MANAGER"
	StoreRoleEmployee StoreRole = "EMPLOYEE"
)

// IsManageable 店主和店长可以管理门店成员、排班和工资
func (r StoreRole) IsManageable() bool {
	return r == StoreRoleOwner || r == StoreRoleManager
}

type Store struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	OwnerID   int64     `json:"ownerID"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

// StoreAccount 是门店与账户之间的关联，只保存双方的 ID
type StoreAccount struct {
	StoreID        int64     `json:"storeID"`
	AccountID      int64     `json:"accountID"`
	Role           StoreRole `json:"role"`
	BaseHourlyWage int64     `json:"baseHourlyWage"`
	JoinedAt       time.Time `json:"joinedAt"`
	Version        int32     `json:"-"`
}
