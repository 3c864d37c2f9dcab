package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ss6051/shift-payroll/backend/internal/domain"
	"github.com/ss6051/shift-payroll/backend/internal/utils"
)

func (h *Handler) GetScheduledWorkDays(w http.ResponseWriter, r *http.Request) {
	me := r.Context().Value(MembershipCtx).(*domain.StoreAccount)
	member := r.Context().Value(MemberCtx).(*domain.StoreAccount)

	if member.AccountID != me.AccountID && !me.Role.IsManageable() {
		h.errorResponse(w, r, "权限不足")
		return
	}

	days, err := h.repository.GetScheduledWorkDays(member.StoreID, member.AccountID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取约定工作时间成功", days)
}

// ReplaceScheduledWorkDays 整体替换成员一周的约定工作时间
func (h *Handler) ReplaceScheduledWorkDays(w http.ResponseWriter, r *http.Request) {
	member := r.Context().Value(MemberCtx).(*domain.StoreAccount)

	var req struct {
		Days []struct {
			DayOfWeek int32   `json:"dayOfWeek" validate:"required,min=1,max=7"`
			StartTime *string `json:"startTime" validate:"omitempty,datetime=15:04:05"`
			EndTime   *string `json:"endTime" validate:"omitempty,datetime=15:04:05"`
		} `json:"days" validate:"max=7,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	days := make([]*domain.ScheduledWorkDay, len(req.Days))
	for i, d := range req.Days {
		days[i] = &domain.ScheduledWorkDay{
			StoreID:   member.StoreID,
			AccountID: member.AccountID,
			DayOfWeek: d.DayOfWeek,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
		}
	}

	if err := utils.ValidateScheduledWorkDays(days); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.ReplaceScheduledWorkDays(member.StoreID, member.AccountID, days); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "scheduled_work_days_membership_fkey":
			h.errorResponse(w, r, "该账户不是门店成员")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新约定工作时间成功", days)
}
