package handler

type ContextKey string

var (
	SubCtxKey       ContextKey = "sub"
	MyInfoCtx       ContextKey = "myInfo"
	AccountInfoCtx  ContextKey = "accountInfo"
	StoreCtx        ContextKey = "store"
	MembershipCtx   ContextKey = "membership" // 当前登录账户在门店中的身份
	MemberCtx       ContextKey = "member"     // 路径中指定的门店成员
	WorkIntervalCtx ContextKey = "workInterval"
)
