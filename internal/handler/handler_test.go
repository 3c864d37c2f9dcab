package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ss6051/shift-payroll/backend/internal/config"
	"github.com/ss6051/shift-payroll/backend/internal/domain"
	"github.com/ss6051/shift-payroll/backend/internal/wage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testStoreID    = 3
	testEmployeeID = 7
	testManagerID  = 8
)

type fakeSource struct {
	wages     map[int64]int64
	intervals []*domain.WorkInterval
	err       error
}

func (s *fakeSource) GetWageProfile(ctx context.Context, accountID, storeID int64) (*wage.WageProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	base, ok := s.wages[accountID]
	if !ok || storeID != testStoreID {
		return nil, &wage.MissingWageProfileError{AccountID: accountID, StoreID: storeID}
	}
	profile := wage.NewWageProfile(base, int64(len(s.wages)))
	return &profile, nil
}

func (s *fakeSource) GetWorkIntervals(ctx context.Context, accountID, storeID int64, from, to time.Time) ([]*domain.WorkInterval, error) {
	result := make([]*domain.WorkInterval, 0)
	for _, iv := range s.intervals {
		if iv.AccountID == accountID && iv.StoreID == storeID && !iv.Start.Before(from) && iv.Start.Before(to) {
			result = append(result, iv)
		}
	}
	return result, nil
}

func (s *fakeSource) GetScheduledWorkDays(ctx context.Context, accountID, storeID int64) ([]*domain.ScheduledWorkDay, error) {
	return nil, nil
}

func (s *fakeSource) GetStoreEmployeeIDs(ctx context.Context, storeID int64) ([]int64, error) {
	return []int64{testEmployeeID, testManagerID}, nil
}

type publishedMessage struct {
	queue string
	msg   amqp.Publishing
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
}

func (p *fakePublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, publishedMessage{queue: key, msg: msg})
	return nil
}

func newTestHandler(t *testing.T, source wage.Source) (*Handler, *fakePublisher) {
	t.Helper()

	cfg := &config.Config{}
	cfg.RabbitMQ.PublishTimeout = 5
	cfg.RabbitMQ.MailQueue = "email_queue"
	cfg.RabbitMQ.PayrollQueue = "payroll_queue"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := &fakePublisher{}

	h, err := NewHandler(cfg, nil, publisher, nil, wage.NewCalculator(source, logger, 2))
	require.NoError(t, err)

	return h, publisher
}

func newSource() *fakeSource {
	return &fakeSource{
		wages: map[int64]int64{testEmployeeID: 10000, testManagerID: 12000},
		intervals: []*domain.WorkInterval{
			{
				ID:        1,
				StoreID:   testStoreID,
				AccountID: testEmployeeID,
				Start:     time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
				End:       time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC),
			},
			{
				ID:        2,
				StoreID:   testStoreID,
				AccountID: testManagerID,
				Start:     time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
				End:       time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC),
			},
		},
	}
}

func storeRequest(method, target string, body io.Reader, accountID int64, role domain.StoreRole) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := context.WithValue(req.Context(), StoreCtx, &domain.Store{ID: testStoreID, Name: "测试门店"})
	ctx = context.WithValue(ctx, MembershipCtx, &domain.StoreAccount{StoreID: testStoreID, AccountID: accountID, Role: role})
	return req.WithContext(ctx)
}

func decodeResponse[T any](t *testing.T, rec *httptest.ResponseRecorder) (bool, string, T) {
	t.Helper()

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    T      `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Success, resp.Message, resp.Data
}

func TestCalculateSalary_Self(t *testing.T) {
	h, _ := newTestHandler(t, newSource())

	rec := httptest.NewRecorder()
	h.CalculateSalary(rec, storeRequest(http.MethodGet, "/stores/3/salary?startDate=2024-03-04&endDate=2024-03-10", nil, testEmployeeID, domain.StoreRoleEmployee))

	require.Equal(t, http.StatusOK, rec.Code)
	success, _, payslip := decodeResponse[wage.Payslip](t, rec)
	require.True(t, success)
	assert.Equal(t, int64(testEmployeeID), payslip.AccountID)
	assert.Equal(t, int64(540), payslip.DayMinutes)
	assert.Equal(t, int64(90000), payslip.BaseWage)
	assert.Equal(t, int64(90000), payslip.Total)
	assert.Len(t, payslip.Weeks, 1)
}

func TestCalculateSalary_EmployeeCannotQueryOthers(t *testing.T) {
	h, _ := newTestHandler(t, newSource())

	rec := httptest.NewRecorder()
	h.CalculateSalary(rec, storeRequest(http.MethodGet, "/stores/3/salary?accountID=8&startDate=2024-03-04&endDate=2024-03-10", nil, testEmployeeID, domain.StoreRoleEmployee))

	success, msg, _ := decodeResponse[any](t, rec)
	assert.False(t, success)
	assert.Equal(t, "权限不足", msg)
}

func TestCalculateSalary_ManagerQueriesMember(t *testing.T) {
	h, _ := newTestHandler(t, newSource())

	rec := httptest.NewRecorder()
	h.CalculateSalary(rec, storeRequest(http.MethodGet, "/stores/3/salary?accountID=7&startDate=2024-03-01&endDate=2024-03-31", nil, testManagerID, domain.StoreRoleManager))

	success, _, payslip := decodeResponse[wage.Payslip](t, rec)
	require.True(t, success)
	assert.Equal(t, int64(testEmployeeID), payslip.AccountID)
	assert.Equal(t, int64(90000), payslip.Total)
}

func TestCalculateSalary_NotMember(t *testing.T) {
	h, _ := newTestHandler(t, newSource())

	rec := httptest.NewRecorder()
	h.CalculateSalary(rec, storeRequest(http.MethodGet, "/stores/3/salary?accountID=99&startDate=2024-03-01&endDate=2024-03-31", nil, testManagerID, domain.StoreRoleOwner))

	require.Equal(t, http.StatusOK, rec.Code)
	success, msg, _ := decodeResponse[any](t, rec)
	assert.False(t, success)
	assert.Equal(t, "该账户不是门店成员", msg)
}

func TestCalculateSalary_InvalidDates(t *testing.T) {
	h, _ := newTestHandler(t, newSource())

	for _, target := range []string{
		"/stores/3/salary?startDate=2024-03-10&endDate=2024-03-01",
		"/stores/3/salary?startDate=2024-03-01",
		"/stores/3/salary?startDate=03/01/2024&endDate=2024-03-31",
	} {
		rec := httptest.NewRecorder()
		h.CalculateSalary(rec, storeRequest(http.MethodGet, target, nil, testEmployeeID, domain.StoreRoleEmployee))

		success, _, _ := decodeResponse[any](t, rec)
		assert.False(t, success, target)
	}
}

func TestCalculateSalary_NegativeDuration(t *testing.T) {
	source := newSource()
	source.intervals = append(source.intervals, &domain.WorkInterval{
		ID:        3,
		StoreID:   testStoreID,
		AccountID: testEmployeeID,
		Start:     time.Date(2024, 3, 6, 18, 0, 0, 0, time.UTC),
		End:       time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC),
	})
	h, _ := newTestHandler(t, source)

	rec := httptest.NewRecorder()
	h.CalculateSalary(rec, storeRequest(http.MethodGet, "/stores/3/salary?startDate=2024-03-01&endDate=2024-03-31", nil, testEmployeeID, domain.StoreRoleEmployee))

	require.Equal(t, http.StatusOK, rec.Code)
	success, _, _ := decodeResponse[any](t, rec)
	assert.False(t, success)
}

func TestCalculateSalary_SourceFailure(t *testing.T) {
	source := newSource()
	source.err = errors.New("connection refused")
	h, _ := newTestHandler(t, source)

	rec := httptest.NewRecorder()
	h.CalculateSalary(rec, storeRequest(http.MethodGet, "/stores/3/salary?startDate=2024-03-01&endDate=2024-03-31", nil, testEmployeeID, domain.StoreRoleEmployee))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestComputeWorkTime(t *testing.T) {
	h, _ := newTestHandler(t, newSource())

	rec := httptest.NewRecorder()
	h.ComputeWorkTime(rec, storeRequest(http.MethodGet, "/stores/3/work-time?from=2024-03-01&to=2024-03-31", nil, testManagerID, domain.StoreRoleManager))

	success, _, result := decodeResponse[wage.WorkTimeResult](t, rec)
	require.True(t, success)
	assert.Equal(t, wage.WorkTimeResult{DayMinutes: 120, NightMinutes: 0, WorkDayCount: 1}, result)
}

func TestGetStorePayroll(t *testing.T) {
	h, _ := newTestHandler(t, newSource())

	rec := httptest.NewRecorder()
	h.GetStorePayroll(rec, storeRequest(http.MethodGet, "/stores/3/payroll?startDate=2024-03-01&endDate=2024-03-31", nil, testManagerID, domain.StoreRoleOwner))

	success, _, payslips := decodeResponse[[]wage.Payslip](t, rec)
	require.True(t, success)
	require.Len(t, payslips, 2)
	assert.Equal(t, int64(testEmployeeID), payslips[0].AccountID)
	assert.Equal(t, int64(90000), payslips[0].Total)
	assert.Equal(t, int64(testManagerID), payslips[1].AccountID)
	assert.Equal(t, int64(24000), payslips[1].Total)
}

func TestEnqueuePayrollRun(t *testing.T) {
	h, publisher := newTestHandler(t, newSource())

	body := strings.NewReader(`{"startDate":"2024-03-01","endDate":"2024-03-31"}`)
	rec := httptest.NewRecorder()
	h.EnqueuePayrollRun(rec, storeRequest(http.MethodPost, "/stores/3/payroll/runs", body, testManagerID, domain.StoreRoleOwner))

	success, _, _ := decodeResponse[any](t, rec)
	require.True(t, success)

	require.Len(t, publisher.messages, 1)
	published := publisher.messages[0]
	assert.Equal(t, "payroll_queue", published.queue)
	assert.Equal(t, "application/json", published.msg.ContentType)

	var msg domain.PayrollRunMessage
	require.NoError(t, json.Unmarshal(published.msg.Body, &msg))
	_, err := uuid.Parse(msg.RunID)
	require.NoError(t, err)
	assert.Equal(t, int64(testStoreID), msg.StoreID)
	assert.Equal(t, int64(testManagerID), msg.RequestedBy)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), msg.StartDate)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), msg.EndDate)
}

func TestEnqueuePayrollRun_InvalidBody(t *testing.T) {
	h, publisher := newTestHandler(t, newSource())

	body := strings.NewReader(`{"startDate":"2024-03-31","endDate":"2024-03-01"}`)
	rec := httptest.NewRecorder()
	h.EnqueuePayrollRun(rec, storeRequest(http.MethodPost, "/stores/3/payroll/runs", body, testManagerID, domain.StoreRoleOwner))

	success, _, _ := decodeResponse[any](t, rec)
	assert.False(t, success)
	assert.Empty(t, publisher.messages)
}

func TestRequireManager(t *testing.T) {
	h, _ := newTestHandler(t, newSource())

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.successResponse(w, r, "ok", nil)
	})

	tests := []struct {
		role    domain.StoreRole
		allowed bool
	}{
		{domain.StoreRoleOwner, true},
		{domain.StoreRoleManager, true},
		{domain.StoreRoleEmployee, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.requireManager(next).ServeHTTP(rec, storeRequest(http.MethodGet, "/stores/3/payroll", nil, testManagerID, tt.role))

			success, _, _ := decodeResponse[any](t, rec)
			assert.Equal(t, tt.allowed, success)
		})
	}
}
