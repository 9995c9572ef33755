package payslip_test

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

	"paydesk/internal/payslip"
	paysliperrors "paydesk/internal/payslip/errors"
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

type fakePayslipService struct {
	generateFn         func(ctx context.Context, actorID string, req payslip.GeneratePayslipRequest) (payslip.PayslipResponse, error)
	approveFn          func(ctx context.Context, payslipID, actorID string) (payslip.PayslipResponse, error)
	rejectFn           func(ctx context.Context, payslipID, actorID string) (payslip.PayslipResponse, error)
	releaseFn          func(ctx context.Context, payslipID, actorID string) (payslip.PayslipResponse, error)
	setStatusFn        func(ctx context.Context, payslipID, actorID, status string) (payslip.PayslipResponse, error)
	getAllByEmployeeFn func(ctx context.Context, employeeID string) ([]payslip.PayslipResponse, error)
	getByIDFn          func(ctx context.Context, payslipID string) (payslip.PayslipResponse, error)
	downloadPDFFn      func(ctx context.Context, payslipID string) ([]byte, string, error)
}

func (f *fakePayslipService) Generate(ctx context.Context, actorID string, req payslip.GeneratePayslipRequest) (payslip.PayslipResponse, error) {
	return f.generateFn(ctx, actorID, req)
}

func (f *fakePayslipService) Approve(ctx context.Context, payslipID, actorID string) (payslip.PayslipResponse, error) {
	return f.approveFn(ctx, payslipID, actorID)
}

func (f *fakePayslipService) Reject(ctx context.Context, payslipID, actorID string) (payslip.PayslipResponse, error) {
	return f.rejectFn(ctx, payslipID, actorID)
}

func (f *fakePayslipService) Release(ctx context.Context, payslipID, actorID string) (payslip.PayslipResponse, error) {
	return f.releaseFn(ctx, payslipID, actorID)
}

func (f *fakePayslipService) SetStatus(ctx context.Context, payslipID, actorID, status string) (payslip.PayslipResponse, error) {
	return f.setStatusFn(ctx, payslipID, actorID, status)
}

func (f *fakePayslipService) GetAllByEmployee(ctx context.Context, employeeID string) ([]payslip.PayslipResponse, error) {
	return f.getAllByEmployeeFn(ctx, employeeID)
}

func (f *fakePayslipService) GetByID(ctx context.Context, payslipID string) (payslip.PayslipResponse, error) {
	return f.getByIDFn(ctx, payslipID)
}

func (f *fakePayslipService) DownloadPDF(ctx context.Context, payslipID string) ([]byte, string, error) {
	return f.downloadPDFFn(ctx, payslipID)
}

func TestPayslipHandler_Generate(t *testing.T) {
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	svc := &fakePayslipService{
		generateFn: func(ctx context.Context, aid string, req payslip.GeneratePayslipRequest) (payslip.PayslipResponse, error) {
			assert.Equal(t, actorID, aid)
			assert.Equal(t, employeeID, req.EmployeeID)
			assert.Equal(t, 2025, req.Year)
			assert.Equal(t, 9, req.Month)
			return payslip.PayslipResponse{ID: uuid.New().String(), Status: "PENDING", NetPay: 16200}, nil
		},
	}

	h := payslip.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"employee_id":"` + employeeID + `","year":2025,"month":9}`
	c.Request = httptest.NewRequest(http.MethodPost, "/payslips", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id_validated", actorID)

	h.Generate(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestPayslipHandler_Generate_NoApprovedCTC(t *testing.T) {
	svc := &fakePayslipService{
		generateFn: func(ctx context.Context, aid string, req payslip.GeneratePayslipRequest) (payslip.PayslipResponse, error) {
			return payslip.PayslipResponse{}, paysliperrors.ErrNoApprovedCTC
		},
	}

	h := payslip.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"employee_id":"` + uuid.New().String() + `","year":2025,"month":9}`
	c.Request = httptest.NewRequest(http.MethodPost, "/payslips", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Generate(c)

	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "PRECONDITION_FAILED", env.Error.Code)
}

func TestPayslipHandler_Release_Conflict(t *testing.T) {
	payslipID := uuid.New().String()

	svc := &fakePayslipService{
		releaseFn: func(ctx context.Context, id, actorID string) (payslip.PayslipResponse, error) {
			return payslip.PayslipResponse{}, paysliperrors.ErrPeriodAlreadyReleased
		},
	}

	h := payslip.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodPost, "/payslips/"+payslipID+"/release", nil)
	c.Params = gin.Params{{Key: "id", Value: payslipID}}
	c.Set("user_id_validated", uuid.New().String())

	h.Release(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestPayslipHandler_DownloadPDF(t *testing.T) {
	payslipID := uuid.New().String()

	svc := &fakePayslipService{
		downloadPDFFn: func(ctx context.Context, id string) ([]byte, string, error) {
			assert.Equal(t, payslipID, id)
			return []byte("%PDF-1.4\n"), "PSL-000042.pdf", nil
		},
	}

	h := payslip.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodGet, "/payslips/"+payslipID+"/pdf", nil)
	c.Params = gin.Params{{Key: "id", Value: payslipID}}

	h.DownloadPDF(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "PSL-000042.pdf")
}
