package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/ss6051/shift-payroll/backend/internal/domain"
	"github.com/ss6051/shift-payroll/backend/internal/utils"
)

func inviteCodeKey(code string) string {
	return fmt.Sprintf("invite_code_%s", code)
}

func (h *Handler) CreateStore(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)

	var req struct {
		Name    string `json:"name" validate:"required,max=64"`
		Address string `json:"address" validate:"required,max=255"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	store := &domain.Store{
		Name:    req.Name,
		Address: req.Address,
		OwnerID: myInfo.ID,
	}

	if err := h.repository.CreateStore(store); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "stores_address_key":
			h.errorResponse(w, r, "该地址已经存在门店")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建门店成功", store)
}

func (h *Handler) GetMyStores(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)

	stores, err := h.repository.GetStoresOfAccount(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取门店列表成功", stores)
}

func (h *Handler) GetStore(w http.ResponseWriter, r *http.Request) {
	store := r.Context().Value(StoreCtx).(*domain.Store)
	h.successResponse(w, r, "获取门店信息成功", store)
}

// CreateInviteCode 生成一次性的邀请码，过期后由 redis 自行删除
func (h *Handler) CreateInviteCode(w http.ResponseWriter, r *http.Request) {
	store := r.Context().Value(StoreCtx).(*domain.Store)

	code := utils.GenerateInviteCode(h.config.Invite.CodeLength)
	expiration := time.Duration(h.config.Invite.Expiration) * time.Second

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	if err := h.redisClient.Set(ctx, inviteCodeKey(code), store.ID, expiration).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "生成邀请码成功", map[string]any{
		"code":      code,
		"expiresAt": time.Now().Add(expiration),
	})
}

func (h *Handler) JoinStore(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Account)

	var req struct {
		Code string `json:"code" validate:"required,alphanum"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	// 取出的同时删除，保证邀请码只能使用一次
	storeIDString, err := h.redisClient.GetDel(ctx, inviteCodeKey(req.Code)).Result()
	if err != nil {
		switch {
		case errors.Is(err, redis.Nil):
			h.errorResponse(w, r, "邀请码无效或已过期")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	storeID, err := strconv.ParseInt(storeIDString, 10, 64)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	sa, err := h.repository.AddStoreEmployee(storeID, myInfo.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "store_accounts_pkey":
			h.errorResponse(w, r, "您已经是该门店的成员")
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "store_accounts_store_id_fkey":
			h.errorResponse(w, r, "门店不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "加入门店成功", sa)
}

func (h *Handler) GetStoreMembers(w http.ResponseWriter, r *http.Request) {
	store := r.Context().Value(StoreCtx).(*domain.Store)

	members, err := h.repository.GetStoreAccounts(store.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取门店成员成功", members)
}

func (h *Handler) UpdateStoreMember(w http.ResponseWriter, r *http.Request) {
	me := r.Context().Value(MembershipCtx).(*domain.StoreAccount)
	member := r.Context().Value(MemberCtx).(*domain.StoreAccount)

	var req struct {
		Role           *string `json:"role" validate:"omitempty,oneof=MANAGER EMPLOYEE"`
		BaseHourlyWage *int64  `json:"baseHourlyWage" validate:"omitempty,min=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if member.Role == domain.StoreRoleOwner && me.AccountID != member.AccountID {
		h.errorResponse(w, r, "不能修改店主的信息")
		return
	}

	if req.Role != nil {
		// 只有店主可以任免店长，店主自身的身份不能改变
		if me.Role != domain.StoreRoleOwner || member.Role == domain.StoreRoleOwner {
			h.errorResponse(w, r, "权限不足")
			return
		}
		member.Role = domain.StoreRole(*req.Role)
	}
	if req.BaseHourlyWage != nil {
		member.BaseHourlyWage = *req.BaseHourlyWage
	}

	if err := h.repository.UpdateStoreAccount(member); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新成员信息失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新成员信息成功", member)
}

func (h *Handler) DeleteStoreMember(w http.ResponseWriter, r *http.Request) {
	member := r.Context().Value(MemberCtx).(*domain.StoreAccount)

	if member.Role == domain.StoreRoleOwner {
		h.errorResponse(w, r, "不能移除店主")
		return
	}

	if err := h.repository.DeleteStoreAccount(member.StoreID, member.AccountID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "移除成员成功", nil)
}
