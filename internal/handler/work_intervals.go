package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ss6051/shift-payroll/backend/internal/domain"
	"github.com/ss6051/shift-payroll/backend/internal/utils"
)

// targetAccountID 解析查询参数中的 accountID，缺省时为当前登录账户。
// 普通员工只能查看自己的数据。
func (h *Handler) targetAccountID(r *http.Request, param string) (int64, error) {
	me := r.Context().Value(MembershipCtx).(*domain.StoreAccount)

	if param == "" {
		return me.AccountID, nil
	}

	accountID, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return 0, errors.New("账户ID无效")
	}

	if accountID != me.AccountID && !me.Role.IsManageable() {
		return 0, errors.New("权限不足")
	}

	return accountID, nil
}

func (h *Handler) workIntervalConstraintError(w http.ResponseWriter, r *http.Request, err error) {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		switch pgErr.ConstraintName {
		case "work_intervals_end_after_start":
			h.errorResponse(w, r, "结束时间不能早于开始时间")
		case "work_intervals_membership_fkey":
			h.errorResponse(w, r, "该账户不是门店成员")
		default:
			h.internalServerError(w, r, err)
		}
	case errors.Is(err, sql.ErrNoRows):
		h.errorResponse(w, r, "更新工作记录失败，请重试")
	default:
		h.internalServerError(w, r, err)
	}
}

func (h *Handler) CreateWorkInterval(w http.ResponseWriter, r *http.Request) {
	store := r.Context().Value(StoreCtx).(*domain.Store)

	var req struct {
		AccountID *int64 `json:"accountID"`
		Start     string `json:"start" validate:"required,datetime=2006-01-02T15:04:05"`
		End       string `json:"end" validate:"required,datetime=2006-01-02T15:04:05"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	accountParam := ""
	if req.AccountID != nil {
		accountParam = strconv.FormatInt(*req.AccountID, 10)
	}
	accountID, err := h.targetAccountID(r, accountParam)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 格式已经通过校验
	start, _ := time.Parse(utils.DateTimeLayout, req.Start)
	end, _ := time.Parse(utils.DateTimeLayout, req.End)

	iv := &domain.WorkInterval{
		StoreID:   store.ID,
		AccountID: accountID,
		Start:     start,
		End:       end,
	}

	if err := utils.ValidateWorkInterval(iv); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateWorkInterval(iv); err != nil {
		h.workIntervalConstraintError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建工作记录成功", iv)
}

func (h *Handler) GetWorkIntervals(w http.ResponseWriter, r *http.Request) {
	store := r.Context().Value(StoreCtx).(*domain.Store)
	query := r.URL.Query()

	accountID, err := h.targetAccountID(r, query.Get("accountID"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	start, end, err := utils.ParseDateRange(query.Get("startDate"), query.Get("endDate"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	intervals, err := h.repository.ListWorkIntervals(store.ID, accountID, start, end.AddDate(0, 0, 1))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取工作记录成功", intervals)
}

func (h *Handler) UpdateWorkInterval(w http.ResponseWriter, r *http.Request) {
	iv := r.Context().Value(WorkIntervalCtx).(*domain.WorkInterval)

	var req struct {
		Start *string `json:"start" validate:"omitempty,datetime=2006-01-02T15:04:05"`
		End   *string `json:"end" validate:"omitempty,datetime=2006-01-02T15:04:05"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Start != nil {
		iv.Start, _ = time.Parse(utils.DateTimeLayout, *req.Start)
	}
	if req.End != nil {
		iv.End, _ = time.Parse(utils.DateTimeLayout, *req.End)
	}

	if err := utils.ValidateWorkInterval(iv); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateWorkInterval(iv); err != nil {
		h.workIntervalConstraintError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新工作记录成功", iv)
}

func (h *Handler) DeleteWorkInterval(w http.ResponseWriter, r *http.Request) {
	iv := r.Context().Value(WorkIntervalCtx).(*domain.WorkInterval)

	if err := h.repository.DeleteWorkInterval(iv.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除工作记录成功", nil)
}
