package ctc_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"paydesk/internal/ctc"
	ctcerrors "paydesk/internal/ctc/errors"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeCTCService struct {
	createFn               func(ctx context.Context, employeeID, actorID string, req ctc.CreateCTCRequest) (ctc.CTCResponse, error)
	createBatchFn          func(ctx context.Context, actorID string, req ctc.BatchCreateCTCRequest) ([]ctc.BatchResult, error)
	approveFn              func(ctx context.Context, ctcID, actorID string) (ctc.CTCResponse, error)
	rejectFn               func(ctx context.Context, ctcID, actorID string) (ctc.CTCResponse, error)
	setPendingFn           func(ctx context.Context, ctcID, actorID string) (ctc.CTCResponse, error)
	setStatusFn            func(ctx context.Context, ctcID, actorID, status string) (ctc.CTCResponse, error)
	approveLatestPendingFn func(ctx context.Context, employeeID, actorID string) (ctc.CTCResponse, error)
	getAllByEmployeeFn     func(ctx context.Context, employeeID string) ([]ctc.CTCResponse, error)
	getByIDFn              func(ctx context.Context, ctcID string) (ctc.CTCResponse, error)
}

func (f *fakeCTCService) Create(ctx context.Context, employeeID, actorID string, req ctc.CreateCTCRequest) (ctc.CTCResponse, error) {
	return f.createFn(ctx, employeeID, actorID, req)
}

func (f *fakeCTCService) CreateBatch(ctx context.Context, actorID string, req ctc.BatchCreateCTCRequest) ([]ctc.BatchResult, error) {
	return f.createBatchFn(ctx, actorID, req)
}

func (f *fakeCTCService) Approve(ctx context.Context, ctcID, actorID string) (ctc.CTCResponse, error) {
	return f.approveFn(ctx, ctcID, actorID)
}

func (f *fakeCTCService) Reject(ctx context.Context, ctcID, actorID string) (ctc.CTCResponse, error) {
	return f.rejectFn(ctx, ctcID, actorID)
}

func (f *fakeCTCService) SetPending(ctx context.Context, ctcID, actorID string) (ctc.CTCResponse, error) {
	return f.setPendingFn(ctx, ctcID, actorID)
}

func (f *fakeCTCService) SetStatus(ctx context.Context, ctcID, actorID, status string) (ctc.CTCResponse, error) {
	return f.setStatusFn(ctx, ctcID, actorID, status)
}

func (f *fakeCTCService) ApproveLatestPending(ctx context.Context, employeeID, actorID string) (ctc.CTCResponse, error) {
	return f.approveLatestPendingFn(ctx, employeeID, actorID)
}

func (f *fakeCTCService) GetAllByEmployee(ctx context.Context, employeeID string) ([]ctc.CTCResponse, error) {
	return f.getAllByEmployeeFn(ctx, employeeID)
}

func (f *fakeCTCService) GetByID(ctx context.Context, ctcID string) (ctc.CTCResponse, error) {
	return f.getByIDFn(ctx, ctcID)
}

func TestCTCHandler_Create(t *testing.T) {
	employeeID := uuid.New().String()
	actorID := uuid.New().String()

	svc := &fakeCTCService{
		createFn: func(ctx context.Context, eid, aid string, req ctc.CreateCTCRequest) (ctc.CTCResponse, error) {
			assert.Equal(t, employeeID, eid)
			assert.Equal(t, actorID, aid)
			assert.Equal(t, float64(12000), req.Basic)
			return ctc.CTCResponse{ID: uuid.New().String(), Status: "PENDING"}, nil
		},
	}

	h := ctc.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"basic":12000,"hra":6000,"tax_percent":10,"effective_from":"2024-01-01"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/ctc/"+employeeID, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: employeeID}}
	c.Set("user_id_validated", actorID)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestCTCHandler_Approve_Conflict(t *testing.T) {
	ctcID := uuid.New().String()

	svc := &fakeCTCService{
		approveFn: func(ctx context.Context, id, actorID string) (ctc.CTCResponse, error) {
			return ctc.CTCResponse{}, ctcerrors.ErrAlreadyApproved
		},
	}

	h := ctc.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodPost, "/ctc/"+ctcID+"/approve", nil)
	c.Params = gin.Params{{Key: "id", Value: ctcID}}
	c.Set("user_id_validated", uuid.New().String())

	h.Approve(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)
}

func TestCTCHandler_SetStatus(t *testing.T) {
	ctcID := uuid.New().String()
	actorID := uuid.New().String()

	svc := &fakeCTCService{
		setStatusFn: func(ctx context.Context, id, aid, status string) (ctc.CTCResponse, error) {
			assert.Equal(t, ctcID, id)
			assert.Equal(t, "REJECTED", status)
			return ctc.CTCResponse{ID: id, Status: "REJECTED"}, nil
		},
	}

	h := ctc.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodPatch, "/ctc/"+ctcID+"/status?status=REJECTED", nil)
	c.Params = gin.Params{{Key: "id", Value: ctcID}}
	c.Set("user_id_validated", actorID)

	h.SetStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCTCHandler_CreateBatch(t *testing.T) {
	actorID := uuid.New().String()
	first := uuid.New().String()
	second := uuid.New().String()

	svc := &fakeCTCService{
		createBatchFn: func(ctx context.Context, aid string, req ctc.BatchCreateCTCRequest) ([]ctc.BatchResult, error) {
			assert.Equal(t, actorID, aid)
			assert.Len(t, req.EmployeeIDs, 2)
			return []ctc.BatchResult{
				{EmployeeID: first, Status: ctc.BatchStatusCreated, CTCID: uuid.New().String()},
				{EmployeeID: second, Status: ctc.BatchStatusConflict, Message: "ctc already approved for this year"},
			}, nil
		},
	}

	h := ctc.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"employee_ids":["` + first + `","` + second + `"],"params":{"basic":10000,"effective_from":"2024-01-01"}}`
	c.Request = httptest.NewRequest(http.MethodPost, "/ctc/batch", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id_validated", actorID)

	h.CreateBatch(c)

	// Mixed outcomes still answer 200; callers read per-row status.
	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)

	var results []ctc.BatchResult
	assert.NoError(t, json.Unmarshal(env.Data, &results))
	assert.Len(t, results, 2)
	assert.Equal(t, ctc.BatchStatusConflict, results[1].Status)
}

func TestCTCHandler_Create_BadPayload(t *testing.T) {
	svc := &fakeCTCService{}
	h := ctc.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodPost, "/ctc/x", strings.NewReader(`{"hra":1}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
}
