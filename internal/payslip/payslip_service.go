package payslip

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"paydesk/internal/bootstrap"
	"paydesk/internal/ctc"
	"paydesk/internal/events"
	"paydesk/internal/messaging/kafka"
	paysliperrors "paydesk/internal/payslip/errors"
	"paydesk/internal/shared/contextutil"
	"paydesk/internal/shared/counter"
)

// LopSource supplies the recorded unpaid-absence day count for a period,
// used when a generation request does not state lop days explicitly.
type LopSource interface {
	LopDays(ctx context.Context, profileID string, year, month int) (float64, error)
}

//go:generate mockgen -source=payslip_service.go -destination=mock/payslip_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, actorID string, req GeneratePayslipRequest) (PayslipResponse, error)
	Approve(ctx context.Context, payslipID, actorID string) (PayslipResponse, error)
	Reject(ctx context.Context, payslipID, actorID string) (PayslipResponse, error)
	Release(ctx context.Context, payslipID, actorID string) (PayslipResponse, error)
	SetStatus(ctx context.Context, payslipID, actorID, status string) (PayslipResponse, error)
	GetAllByEmployee(ctx context.Context, employeeID string) ([]PayslipResponse, error)
	GetByID(ctx context.Context, payslipID string) (PayslipResponse, error)
	DownloadPDF(ctx context.Context, payslipID string) ([]byte, string, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	ctcRepo ctc.Repository
	counter counter.Repository
	lop     LopSource
	outbox  kafka.OutboxRepository
	audit   bootstrap.AuditLogger
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	ctcRepo ctc.Repository,
	counterRepo counter.Repository,
	lop LopSource,
	outboxRepo kafka.OutboxRepository,
	audit bootstrap.AuditLogger,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payslip.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payslip.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		ctcRepo: ctcRepo,
		counter: counterRepo,
		lop:     lop,
		outbox:  outboxRepo,
		audit:   audit,
		logger:  l,
	}
}

// Generate computes a new Pending payslip from the employee's latest
// approved CTC structure. Line items are copied verbatim from the CTC;
// override totals affect only the header aggregates and net pay.
func (s *service) Generate(
	ctx context.Context,
	actorID string,
	req GeneratePayslipRequest,
) (PayslipResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(req.EmployeeID); err != nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidEmployeeID
	}
	if req.Month < 1 || req.Month > 12 || req.Year < 2000 || req.Year > 2100 {
		return PayslipResponse{}, paysliperrors.ErrInvalidPeriod
	}
	if req.LopDays != nil && (*req.LopDays < 0 || *req.LopDays > 31) {
		return PayslipResponse{}, paysliperrors.ErrInvalidLopDays
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("generate payslip begin tx failed", zap.Error(err))
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ctcTx := s.ctcRepo.WithTx(tx)

	profileID, err := qtx.FindProfileIDByEmployee(ctx, req.EmployeeID)
	if err != nil {
		return PayslipResponse{}, err
	}
	if profileID == "" {
		return PayslipResponse{}, paysliperrors.ErrProfileNotFound
	}

	structure, err := ctcTx.FindLatestApprovedByProfile(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayslipResponse{}, paysliperrors.ErrNoApprovedCTC
		}
		return PayslipResponse{}, err
	}

	lopDays, err := s.resolveLopDays(ctx, profileID, req)
	if err != nil {
		return PayslipResponse{}, err
	}

	result := Compute(*structure, lopDays, ComputeOverrides{
		AllowanceTotal: req.OverrideAllowanceTotal,
		DeductionTotal: req.OverrideDeductionTotal,
	})

	seq, err := s.counter.GetNextValue(ctx, "payslip")
	if err != nil {
		return PayslipResponse{}, err
	}

	record := buildPayslip(*structure, actorUUID, req.Year, req.Month, fmt.Sprintf("PSL-%06d", seq), result)

	if err := qtx.Create(ctx, record); err != nil {
		s.logger.Error("generate payslip persist failed", zap.Error(err))
		return PayslipResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayslipResponse{}, err
	}

	s.auditLog(ctx, "PAYSLIP_GENERATED", "payslip generated", map[string]any{
		"payslip_id":          record.ID.String(),
		"employee_profile_id": profileID,
		"year":                req.Year,
		"month":               req.Month,
		"actor_id":            actorID,
	})
	s.logger.Info("payslip generated",
		zap.String("request_id", rid),
		zap.String("payslip_id", record.ID.String()),
		zap.String("payslip_number", record.PayslipNumber),
		zap.Float64("net_pay", record.NetPay),
	)

	return mapToResponse(*record), nil
}

func (s *service) resolveLopDays(ctx context.Context, profileID string, req GeneratePayslipRequest) (float64, error) {
	if req.LopDays != nil {
		return *req.LopDays, nil
	}
	if s.lop == nil {
		return 0, nil
	}
	days, err := s.lop.LopDays(ctx, profileID, req.Year, req.Month)
	if err != nil {
		return 0, err
	}
	if days < 0 || days > 31 {
		return 0, paysliperrors.ErrInvalidLopDays
	}
	return days, nil
}

// Approve moves a payslip to Approved. It refuses when another payslip for
// the same period is already released; the released one has already won.
func (s *service) Approve(ctx context.Context, payslipID, actorID string) (PayslipResponse, error) {
	if _, err := uuid.Parse(payslipID); err != nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidPayslipID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, payslipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayslipResponse{}, paysliperrors.ErrPayslipNotFound
		}
		return PayslipResponse{}, err
	}

	profileID := record.EmployeeProfileID.String()
	if _, err := qtx.LockProfile(ctx, profileID); err != nil {
		return PayslipResponse{}, err
	}

	if record.Terminal() {
		return PayslipResponse{}, paysliperrors.ErrReleasedImmutable
	}

	released, err := qtx.HasReleasedInPeriod(ctx, profileID, record.Year, record.Month, &payslipID)
	if err != nil {
		return PayslipResponse{}, err
	}
	if released {
		return PayslipResponse{}, paysliperrors.ErrPeriodAlreadyReleased
	}

	record.Status = ctc.StatusApproved
	if err := qtx.Update(ctx, record); err != nil {
		return PayslipResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayslipResponse{}, err
	}

	s.auditLog(ctx, "PAYSLIP_APPROVED", "payslip approved", map[string]any{
		"payslip_id": payslipID,
		"actor_id":   actorID,
	})

	return mapToResponse(*record), nil
}

func (s *service) Reject(ctx context.Context, payslipID, actorID string) (PayslipResponse, error) {
	return s.assignStatus(ctx, payslipID, actorID, ctc.StatusRejected)
}

func (s *service) SetStatus(ctx context.Context, payslipID, actorID, status string) (PayslipResponse, error) {
	target := ctc.Status(strings.ToUpper(status))
	if !target.Valid() {
		return PayslipResponse{}, paysliperrors.ErrInvalidStatus
	}

	if target == ctc.StatusApproved {
		return s.Approve(ctx, payslipID, actorID)
	}
	return s.assignStatus(ctx, payslipID, actorID, target)
}

func (s *service) assignStatus(
	ctx context.Context,
	payslipID, actorID string,
	target ctc.Status,
) (PayslipResponse, error) {
	if _, err := uuid.Parse(payslipID); err != nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidPayslipID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, payslipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayslipResponse{}, paysliperrors.ErrPayslipNotFound
		}
		return PayslipResponse{}, err
	}

	if record.Terminal() {
		return PayslipResponse{}, paysliperrors.ErrReleasedImmutable
	}

	record.Status = target
	if err := qtx.Update(ctx, record); err != nil {
		return PayslipResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayslipResponse{}, err
	}

	s.auditLog(ctx, "PAYSLIP_STATUS_SET", "payslip status assigned", map[string]any{
		"payslip_id": payslipID,
		"to":         string(target),
		"actor_id":   actorID,
	})

	return mapToResponse(*record), nil
}

// Release marks an approved payslip as the period's released record and
// rejects every other approved sibling in the same period, keeping the
// one-released-per-period invariant in a single transaction.
func (s *service) Release(ctx context.Context, payslipID, actorID string) (PayslipResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(payslipID); err != nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidPayslipID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("release payslip begin tx failed", zap.Error(err))
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, payslipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayslipResponse{}, paysliperrors.ErrPayslipNotFound
		}
		return PayslipResponse{}, err
	}

	profileID := record.EmployeeProfileID.String()

	locked, err := qtx.LockProfile(ctx, profileID)
	if err != nil {
		return PayslipResponse{}, err
	}
	if !locked {
		return PayslipResponse{}, paysliperrors.ErrProfileNotFound
	}

	if record.IsReleased {
		return PayslipResponse{}, paysliperrors.ErrReleasedImmutable
	}

	released, err := qtx.HasReleasedInPeriod(ctx, profileID, record.Year, record.Month, &payslipID)
	if err != nil {
		return PayslipResponse{}, err
	}
	if released {
		return PayslipResponse{}, paysliperrors.ErrPeriodAlreadyReleased
	}

	if record.Status != ctc.StatusApproved {
		return PayslipResponse{}, paysliperrors.ErrNotApproved
	}

	now := time.Now().UTC()
	record.IsReleased = true
	record.ReleasedByUserID = &actorUUID
	record.ReleasedAt = &now
	if err := qtx.Update(ctx, record); err != nil {
		return PayslipResponse{}, err
	}

	siblings, err := qtx.FindApprovedInPeriod(ctx, profileID, record.Year, record.Month)
	if err != nil {
		return PayslipResponse{}, err
	}

	rejectedIDs := ReleaseRejections(*record, siblings)
	if err := qtx.UpdateStatuses(ctx, rejectedIDs, ctc.StatusRejected); err != nil {
		return PayslipResponse{}, err
	}

	if err := s.stageReleasedEvent(ctx, tx, rid, actorID, *record); err != nil {
		return PayslipResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("release payslip commit failed", zap.Error(err))
		return PayslipResponse{}, err
	}

	s.auditLog(ctx, "PAYSLIP_RELEASED", "payslip released", map[string]any{
		"payslip_id":          payslipID,
		"employee_profile_id": profileID,
		"year":                record.Year,
		"month":               record.Month,
		"actor_id":            actorID,
		"cascade_rejected":    len(rejectedIDs),
	})
	s.logger.Info("payslip released",
		zap.String("request_id", rid),
		zap.String("payslip_id", payslipID),
		zap.Int("cascade_rejected", len(rejectedIDs)),
	)

	return mapToResponse(*record), nil
}

func (s *service) GetAllByEmployee(ctx context.Context, employeeID string) ([]PayslipResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, paysliperrors.ErrInvalidEmployeeID
	}

	profileID, err := s.repo.FindProfileIDByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if profileID == "" {
		return nil, paysliperrors.ErrProfileNotFound
	}

	records, err := s.repo.FindAllByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	resp := make([]PayslipResponse, len(records))
	for i, record := range records {
		resp[i] = mapToResponse(record)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, payslipID string) (PayslipResponse, error) {
	if _, err := uuid.Parse(payslipID); err != nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidPayslipID
	}

	record, err := s.repo.FindByID(ctx, payslipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayslipResponse{}, paysliperrors.ErrPayslipNotFound
		}
		return PayslipResponse{}, err
	}

	return mapToResponse(*record), nil
}

func (s *service) DownloadPDF(ctx context.Context, payslipID string) ([]byte, string, error) {
	if _, err := uuid.Parse(payslipID); err != nil {
		return nil, "", paysliperrors.ErrInvalidPayslipID
	}

	record, err := s.repo.FindByID(ctx, payslipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", paysliperrors.ErrPayslipNotFound
		}
		return nil, "", err
	}

	pdf, err := buildSimplePayslipPDF(pdfLines(*record))
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s.pdf", record.PayslipNumber)
	return pdf, filename, nil
}

func (s *service) stageReleasedEvent(
	ctx context.Context,
	tx *sql.Tx,
	rid, actorID string,
	record Payslip,
) error {
	if s.outbox == nil {
		return nil
	}

	event := events.PayslipReleasedEvent{
		EventType:         "payslip.released",
		PayslipID:         record.ID.String(),
		EmployeeProfileID: record.EmployeeProfileID.String(),
		Year:              record.Year,
		Month:             record.Month,
		NetPay:            record.NetPay,
		ReleasedBy:        actorID,
		OccurredAt:        time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     rid,
		AggregateType: "payslip",
		AggregateID:   event.PayslipID,
		EventType:     event.EventType,
		Topic:         events.PayslipReleasedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) auditLog(ctx context.Context, action, message string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	s.audit.Log(ctx, bootstrap.AuditLog{Action: action, Message: message, Meta: meta})
}

func buildPayslip(
	structure ctc.CTCStructure,
	actorID uuid.UUID,
	year, month int,
	number string,
	result Computation,
) *Payslip {
	payslipID := uuid.New()

	allowances := make([]PayslipAllowance, len(structure.Allowances))
	for i, a := range structure.Allowances {
		allowances[i] = PayslipAllowance{
			ID:        uuid.New(),
			PayslipID: payslipID,
			Label:     a.Label,
			Amount:    a.Amount,
			Position:  i,
		}
	}
	deductions := make([]PayslipDeduction, len(structure.Deductions))
	for i, d := range structure.Deductions {
		deductions[i] = PayslipDeduction{
			ID:        uuid.New(),
			PayslipID: payslipID,
			Label:     d.Label,
			Amount:    d.Amount,
			Position:  i,
		}
	}

	return &Payslip{
		ID:                payslipID,
		PayslipNumber:     number,
		EmployeeProfileID: structure.EmployeeProfileID,
		CTCStructureID:    structure.ID,
		Year:              year,
		Month:             month,
		Basic:             result.Basic,
		HRA:               result.HRA,
		AllowanceTotal:    result.AllowanceTotal,
		DeductionTotal:    result.DeductionTotal,
		GrossPay:          result.GrossPay,
		TaxDeducted:       result.TaxDeducted,
		LopDays:           result.LopDays,
		LopDeduction:      result.LopDeduction,
		NetPay:            result.NetPay,
		Status:            ctc.StatusPending,
		IsReleased:        false,
		CreatedByUserID:   actorID,
		Allowances:        allowances,
		Deductions:        deductions,
	}
}

func mapToResponse(record Payslip) PayslipResponse {
	allowances := make([]LineItemResponse, len(record.Allowances))
	for i, a := range record.Allowances {
		allowances[i] = LineItemResponse{Label: a.Label, Amount: a.Amount}
	}
	deductions := make([]LineItemResponse, len(record.Deductions))
	for i, d := range record.Deductions {
		deductions[i] = LineItemResponse{Label: d.Label, Amount: d.Amount}
	}

	resp := PayslipResponse{
		ID:                record.ID.String(),
		PayslipNumber:     record.PayslipNumber,
		EmployeeProfileID: record.EmployeeProfileID.String(),
		CTCStructureID:    record.CTCStructureID.String(),
		Year:              record.Year,
		Month:             record.Month,
		Basic:             record.Basic,
		HRA:               record.HRA,
		Allowances:        allowances,
		Deductions:        deductions,
		AllowanceTotal:    record.AllowanceTotal,
		DeductionTotal:    record.DeductionTotal,
		GrossPay:          record.GrossPay,
		TaxDeducted:       record.TaxDeducted,
		LopDays:           record.LopDays,
		LopDeduction:      record.LopDeduction,
		NetPay:            record.NetPay,
		Status:            string(record.Status),
		IsReleased:        record.IsReleased,
	}
	if record.ReleasedByUserID != nil {
		resp.ReleasedBy = record.ReleasedByUserID.String()
	}
	if record.ReleasedAt != nil {
		resp.ReleasedAt = record.ReleasedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
