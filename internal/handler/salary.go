package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ss6051/shift-payroll/backend/internal/domain"
	"github.com/ss6051/shift-payroll/backend/internal/utils"
)

// CalculateSalary 计算某个成员在 [startDate, endDate] 期间的工资，计算结果不会保存
func (h *Handler) CalculateSalary(w http.ResponseWriter, r *http.Request) {
	store := r.Context().Value(StoreCtx).(*domain.Store)
	query := r.URL.Query()

	accountID, err := h.targetAccountID(r, query.Get("accountID"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	startDate, endDate, err := utils.ParseDateRange(query.Get("startDate"), query.Get("endDate"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	payslip, err := h.calculator.CalculateWage(r.Context(), accountID, store.ID, startDate, endDate)
	if err != nil {
		h.wageError(w, r, err)
		return
	}

	h.successResponse(w, r, "计算工资成功", payslip)
}

func (h *Handler) ComputeWorkTime(w http.ResponseWriter, r *http.Request) {
	store := r.Context().Value(StoreCtx).(*domain.Store)
	query := r.URL.Query()

	accountID, err := h.targetAccountID(r, query.Get("accountID"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	from, to, err := utils.ParseDateRange(query.Get("from"), query.Get("to"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	result, err := h.calculator.ComputeWorkTime(r.Context(), accountID, store.ID, from, to)
	if err != nil {
		h.wageError(w, r, err)
		return
	}

	h.successResponse(w, r, "统计工作时长成功", result)
}

func (h *Handler) GetStorePayroll(w http.ResponseWriter, r *http.Request) {
	store := r.Context().Value(StoreCtx).(*domain.Store)
	query := r.URL.Query()

	startDate, endDate, err := utils.ParseDateRange(query.Get("startDate"), query.Get("endDate"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	payslips, err := h.calculator.CalculateStorePayroll(r.Context(), store.ID, startDate, endDate)
	if err != nil {
		h.wageError(w, r, err)
		return
	}

	h.successResponse(w, r, "计算门店工资成功", payslips)
}

// EnqueuePayrollRun 把门店的工资结算投递到队列中，由 payroll 服务计算并给每位成员发送工资单
func (h *Handler) EnqueuePayrollRun(w http.ResponseWriter, r *http.Request) {
	store := r.Context().Value(StoreCtx).(*domain.Store)
	me := r.Context().Value(MembershipCtx).(*domain.StoreAccount)

	var req struct {
		StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
		EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	startDate, endDate, err := utils.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	msg := domain.PayrollRunMessage{
		RunID:       uuid.NewString(),
		StoreID:     store.ID,
		StartDate:   startDate,
		EndDate:     endDate,
		RequestedBy: me.AccountID,
	}

	if err := h.publishJSON(h.config.RabbitMQ.PayrollQueue, msg); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	slog.Info("已提交工资结算", "run_id", msg.RunID, "store_id", store.ID, "start_date", startDate.Format(time.DateOnly), "end_date", endDate.Format(time.DateOnly))

	h.successResponse(w, r, "已提交工资结算", msg)
}
