package ctc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"paydesk/internal/bootstrap"
	ctcerrors "paydesk/internal/ctc/errors"
	"paydesk/internal/events"
	"paydesk/internal/messaging/kafka"
	"paydesk/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=ctc_service.go -destination=mock/ctc_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, employeeID, actorID string, req CreateCTCRequest) (CTCResponse, error)
	CreateBatch(ctx context.Context, actorID string, req BatchCreateCTCRequest) ([]BatchResult, error)
	Approve(ctx context.Context, ctcID, actorID string) (CTCResponse, error)
	Reject(ctx context.Context, ctcID, actorID string) (CTCResponse, error)
	SetPending(ctx context.Context, ctcID, actorID string) (CTCResponse, error)
	SetStatus(ctx context.Context, ctcID, actorID, status string) (CTCResponse, error)
	ApproveLatestPending(ctx context.Context, employeeID, actorID string) (CTCResponse, error)
	GetAllByEmployee(ctx context.Context, employeeID string) ([]CTCResponse, error)
	GetByID(ctx context.Context, ctcID string) (CTCResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	audit  bootstrap.AuditLogger
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithCollaborators(db, repo, nil, nil, logger...)
}

func NewServiceWithCollaborators(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	audit bootstrap.AuditLogger,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("ctc.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ctc.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		audit:  audit,
		logger: l,
	}
}

func (s *service) Create(
	ctx context.Context,
	employeeID, actorID string,
	req CreateCTCRequest,
) (CTCResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create ctc requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("actor_id", actorID),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return CTCResponse{}, ctcerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return CTCResponse{}, ctcerrors.ErrInvalidEmployeeID
	}

	effectiveFrom, err := validateCTCParams(req)
	if err != nil {
		s.logger.Warn("create ctc validation failed", zap.Error(err))
		return CTCResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create ctc begin tx failed", zap.Error(err))
		return CTCResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	profileID, err := qtx.FindProfileIDByEmployee(ctx, employeeID)
	if err != nil {
		return CTCResponse{}, err
	}
	if profileID == "" {
		return CTCResponse{}, ctcerrors.ErrProfileNotFound
	}

	record := buildCTC(uuid.MustParse(profileID), actorUUID, req, effectiveFrom)

	if err := qtx.Create(ctx, record); err != nil {
		s.logger.Error("create ctc persist failed", zap.Error(err))
		return CTCResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create ctc commit failed", zap.Error(err))
		return CTCResponse{}, err
	}

	s.auditLog(ctx, "CTC_CREATED", "CTC structure created", map[string]any{
		"ctc_id":              record.ID.String(),
		"employee_profile_id": profileID,
		"actor_id":            actorID,
	})
	s.logger.Info("ctc created",
		zap.String("request_id", rid),
		zap.String("ctc_id", record.ID.String()),
		zap.String("employee_profile_id", profileID),
	)

	return mapToResponse(*record), nil
}

// CreateBatch stages one CTC per employee. Per-item failures become result
// rows and never abort the rest; all staged records commit together at the
// end, so earlier successes survive later failures.
func (s *service) CreateBatch(
	ctx context.Context,
	actorID string,
	req BatchCreateCTCRequest,
) ([]BatchResult, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return nil, ctcerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	results := make([]BatchResult, 0, len(req.EmployeeIDs))
	staged := make([]*CTCStructure, 0, len(req.EmployeeIDs))
	seen := make(map[string]bool, len(req.EmployeeIDs))

	for _, employeeID := range req.EmployeeIDs {
		if seen[employeeID] {
			continue
		}
		seen[employeeID] = true

		record, result := s.stageBatchItem(ctx, qtx, actorUUID, employeeID, req.Params)
		results = append(results, result)
		if record != nil {
			staged = append(staged, record)
		}
	}

	if err := qtx.CreateAll(ctx, staged); err != nil {
		s.logger.Error("create ctc batch persist failed", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.auditLog(ctx, "CTC_BATCH_CREATED", "CTC batch processed", map[string]any{
		"requested": len(req.EmployeeIDs),
		"created":   len(staged),
		"actor_id":  actorID,
	})
	s.logger.Info("ctc batch processed",
		zap.Int("requested", len(req.EmployeeIDs)),
		zap.Int("created", len(staged)),
	)

	return results, nil
}

func (s *service) stageBatchItem(
	ctx context.Context,
	qtx Repository,
	actorUUID uuid.UUID,
	employeeID string,
	params CreateCTCRequest,
) (*CTCStructure, BatchResult) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, BatchResult{
			EmployeeID: employeeID,
			Status:     BatchStatusError,
			Message:    ctcerrors.ErrInvalidEmployeeID.Message,
		}
	}

	profileID, err := qtx.FindProfileIDByEmployee(ctx, employeeID)
	if err != nil {
		return nil, BatchResult{EmployeeID: employeeID, Status: BatchStatusError, Message: err.Error()}
	}
	if profileID == "" {
		return nil, BatchResult{
			EmployeeID: employeeID,
			Status:     BatchStatusError,
			Message:    ctcerrors.ErrProfileNotFound.Message,
		}
	}

	effectiveFrom, err := validateCTCParams(params)
	if err != nil {
		return nil, BatchResult{EmployeeID: employeeID, Status: BatchStatusError, Message: err.Error()}
	}
	effectiveTo := effectiveFrom.AddDate(1, 0, 0)

	// Pre-commit read-only checks against the employee's approved records.
	conflict, err := qtx.HasYearConflict(ctx, profileID, effectiveFrom.Year(), nil)
	if err != nil {
		return nil, BatchResult{EmployeeID: employeeID, Status: BatchStatusError, Message: err.Error()}
	}
	if conflict {
		return nil, BatchResult{
			EmployeeID: employeeID,
			Status:     BatchStatusConflict,
			Message:    ctcerrors.ErrYearAlreadyClaimed.Message,
		}
	}

	overlap, err := qtx.HasOverlap(ctx, profileID, effectiveFrom, effectiveTo, nil)
	if err != nil {
		return nil, BatchResult{EmployeeID: employeeID, Status: BatchStatusError, Message: err.Error()}
	}
	if overlap {
		return nil, BatchResult{
			EmployeeID: employeeID,
			Status:     BatchStatusConflict,
			Message:    ctcerrors.ErrPeriodOverlap.Message,
		}
	}

	record := buildCTC(uuid.MustParse(profileID), actorUUID, params, effectiveFrom)
	return record, BatchResult{
		EmployeeID: employeeID,
		Status:     BatchStatusCreated,
		CTCID:      record.ID.String(),
	}
}

// Approve promotes a pending or rejected record and restores the
// one-active-CTC invariant: every other approved record whose window starts
// later is rejected in the same transaction.
func (s *service) Approve(ctx context.Context, ctcID, actorID string) (CTCResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(ctcID); err != nil {
		return CTCResponse{}, ctcerrors.ErrInvalidCTCID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return CTCResponse{}, ctcerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve ctc begin tx failed", zap.Error(err))
		return CTCResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, ctcID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CTCResponse{}, ctcerrors.ErrCTCNotFound
		}
		return CTCResponse{}, err
	}

	profileID := record.EmployeeProfileID.String()

	// Serialize conflicting approvals per employee; the validator reads
	// below see committed state as of this lock.
	locked, err := qtx.LockProfile(ctx, profileID)
	if err != nil {
		return CTCResponse{}, err
	}
	if !locked {
		return CTCResponse{}, ctcerrors.ErrProfileNotFound
	}

	if record.Status == StatusApproved {
		// Approving twice must not re-run the cascade.
		return CTCResponse{}, ctcerrors.ErrAlreadyApproved
	}

	// Recomputed defensively; the window is system-assigned.
	record.EffectiveTo = record.EffectiveFrom.AddDate(1, 0, 0)

	yearConflict, err := qtx.HasYearConflict(ctx, profileID, record.EffectiveFrom.Year(), &ctcID)
	if err != nil {
		return CTCResponse{}, err
	}
	if yearConflict {
		return CTCResponse{}, ctcerrors.ErrYearAlreadyClaimed
	}

	overlap, err := qtx.HasOverlap(ctx, profileID, record.EffectiveFrom, record.EffectiveTo, &ctcID)
	if err != nil {
		return CTCResponse{}, err
	}
	if overlap {
		return CTCResponse{}, ctcerrors.ErrPeriodOverlap
	}

	fromStatus := record.Status
	record.Status = StatusApproved
	record.IsApproved = true
	if err := qtx.Update(ctx, record); err != nil {
		return CTCResponse{}, err
	}

	approved, err := qtx.FindApprovedByProfile(ctx, profileID)
	if err != nil {
		return CTCResponse{}, err
	}

	rejectedIDs := RetroactiveRejections(*record, approved)
	if err := qtx.UpdateStatuses(ctx, rejectedIDs, StatusRejected); err != nil {
		return CTCResponse{}, err
	}

	if err := s.stageStatusEvents(ctx, tx, rid, actorID, *record, fromStatus, rejectedIDs); err != nil {
		return CTCResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approve ctc commit failed", zap.Error(err))
		return CTCResponse{}, err
	}

	s.auditLog(ctx, "CTC_APPROVED", "CTC structure approved", map[string]any{
		"ctc_id":              ctcID,
		"employee_profile_id": profileID,
		"actor_id":            actorID,
		"cascade_rejected":    len(rejectedIDs),
	})
	s.logger.Info("ctc approved",
		zap.String("request_id", rid),
		zap.String("ctc_id", ctcID),
		zap.Int("cascade_rejected", len(rejectedIDs)),
	)

	return mapToResponse(*record), nil
}

func (s *service) Reject(ctx context.Context, ctcID, actorID string) (CTCResponse, error) {
	return s.assignStatus(ctx, ctcID, actorID, StatusRejected)
}

func (s *service) SetPending(ctx context.Context, ctcID, actorID string) (CTCResponse, error) {
	return s.assignStatus(ctx, ctcID, actorID, StatusPending)
}

func (s *service) SetStatus(ctx context.Context, ctcID, actorID, status string) (CTCResponse, error) {
	target := Status(strings.ToUpper(status))
	if !target.Valid() {
		return CTCResponse{}, ctcerrors.ErrInvalidStatus
	}

	switch target {
	case StatusApproved:
		return s.Approve(ctx, ctcID, actorID)
	case StatusRejected:
		return s.Reject(ctx, ctcID, actorID)
	default:
		return s.SetPending(ctx, ctcID, actorID)
	}
}

// assignStatus is the plain transition path: direct assignment, no cascade.
func (s *service) assignStatus(ctx context.Context, ctcID, actorID string, target Status) (CTCResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(ctcID); err != nil {
		return CTCResponse{}, ctcerrors.ErrInvalidCTCID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return CTCResponse{}, ctcerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CTCResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, ctcID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CTCResponse{}, ctcerrors.ErrCTCNotFound
		}
		return CTCResponse{}, err
	}

	fromStatus := record.Status
	record.Status = target
	record.IsApproved = false
	if err := qtx.Update(ctx, record); err != nil {
		return CTCResponse{}, err
	}

	if fromStatus != target {
		if err := s.stageStatusEvents(ctx, tx, rid, actorID, *record, fromStatus, nil); err != nil {
			return CTCResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return CTCResponse{}, err
	}

	s.auditLog(ctx, "CTC_STATUS_SET", "CTC status assigned", map[string]any{
		"ctc_id":   ctcID,
		"from":     string(fromStatus),
		"to":       string(target),
		"actor_id": actorID,
	})
	s.logger.Info("ctc status assigned",
		zap.String("request_id", rid),
		zap.String("ctc_id", ctcID),
		zap.String("from_status", string(fromStatus)),
		zap.String("to_status", string(target)),
	)

	return mapToResponse(*record), nil
}

// ApproveLatestPending picks the employee's most recent record that is not
// yet approved and runs the full approval path on it.
func (s *service) ApproveLatestPending(ctx context.Context, employeeID, actorID string) (CTCResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return CTCResponse{}, ctcerrors.ErrInvalidEmployeeID
	}

	profileID, err := s.repo.FindProfileIDByEmployee(ctx, employeeID)
	if err != nil {
		return CTCResponse{}, err
	}
	if profileID == "" {
		return CTCResponse{}, ctcerrors.ErrProfileNotFound
	}

	record, err := s.repo.FindLatestNonApprovedByProfile(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CTCResponse{}, ctcerrors.ErrNoPendingCTC
		}
		return CTCResponse{}, err
	}

	return s.Approve(ctx, record.ID.String(), actorID)
}

func (s *service) GetAllByEmployee(ctx context.Context, employeeID string) ([]CTCResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, ctcerrors.ErrInvalidEmployeeID
	}

	profileID, err := s.repo.FindProfileIDByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if profileID == "" {
		return nil, ctcerrors.ErrProfileNotFound
	}

	records, err := s.repo.FindAllByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(records), nil
}

func (s *service) GetByID(ctx context.Context, ctcID string) (CTCResponse, error) {
	if _, err := uuid.Parse(ctcID); err != nil {
		return CTCResponse{}, ctcerrors.ErrInvalidCTCID
	}

	record, err := s.repo.FindByID(ctx, ctcID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CTCResponse{}, ctcerrors.ErrCTCNotFound
		}
		return CTCResponse{}, err
	}

	return mapToResponse(*record), nil
}

func (s *service) stageStatusEvents(
	ctx context.Context,
	tx *sql.Tx,
	rid, actorID string,
	record CTCStructure,
	fromStatus Status,
	cascaded []uuid.UUID,
) error {
	if s.outbox == nil {
		return nil
	}

	outboxTx := s.outbox.WithTx(tx)
	now := time.Now().UTC()

	stage := func(event events.CTCStatusChangedEvent) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		return outboxTx.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.New().String(),
			RequestID:     rid,
			AggregateType: "ctc_structure",
			AggregateID:   event.CTCID,
			EventType:     event.EventType,
			Topic:         events.CTCStatusChangedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		})
	}

	if err := stage(events.CTCStatusChangedEvent{
		EventType:         "ctc.status.changed",
		CTCID:             record.ID.String(),
		EmployeeProfileID: record.EmployeeProfileID.String(),
		FromStatus:        string(fromStatus),
		ToStatus:          string(record.Status),
		ActorID:           actorID,
		OccurredAt:        now,
	}); err != nil {
		return err
	}

	for _, id := range cascaded {
		if err := stage(events.CTCStatusChangedEvent{
			EventType:         "ctc.status.changed",
			CTCID:             id.String(),
			EmployeeProfileID: record.EmployeeProfileID.String(),
			FromStatus:        string(StatusApproved),
			ToStatus:          string(StatusRejected),
			CascadedFrom:      record.ID.String(),
			ActorID:           actorID,
			OccurredAt:        now,
		}); err != nil {
			return err
		}
	}

	return nil
}

func (s *service) auditLog(ctx context.Context, action, message string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	s.audit.Log(ctx, bootstrap.AuditLog{Action: action, Message: message, Meta: meta})
}

func validateCTCParams(req CreateCTCRequest) (time.Time, error) {
	if req.Basic <= 0 {
		return time.Time{}, ctcerrors.ErrBasicNotPositive
	}
	if req.HRA < 0 {
		return time.Time{}, ctcerrors.ErrHRANegative
	}
	if req.HRA > 0.5*req.Basic {
		return time.Time{}, ctcerrors.ErrHRATooHigh
	}
	if hasDuplicateLabels(req.Allowances) {
		return time.Time{}, ctcerrors.ErrDuplicateAllowanceLabel
	}
	if hasDuplicateLabels(req.Deductions) {
		return time.Time{}, ctcerrors.ErrDuplicateDeductionLabel
	}
	if req.EffectiveFrom == "" {
		return time.Time{}, ctcerrors.ErrEffectiveFromRequired
	}

	effectiveFrom, err := time.Parse("2006-01-02", req.EffectiveFrom)
	if err != nil {
		return time.Time{}, ctcerrors.ErrInvalidDateFormat
	}

	return effectiveFrom, nil
}

func hasDuplicateLabels(items []LineItemRequest) bool {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item.Label))
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}

func buildCTC(
	profileID, actorID uuid.UUID,
	req CreateCTCRequest,
	effectiveFrom time.Time,
) *CTCStructure {
	ctcID := uuid.New()

	allowances := make([]CTCAllowance, len(req.Allowances))
	var allowanceTotal float64
	for i, item := range req.Allowances {
		allowances[i] = CTCAllowance{
			ID:             uuid.New(),
			CTCStructureID: ctcID,
			Label:          item.Label,
			Amount:         item.Amount,
			Position:       i,
		}
		allowanceTotal += item.Amount
	}

	deductions := make([]CTCDeduction, len(req.Deductions))
	for i, item := range req.Deductions {
		deductions[i] = CTCDeduction{
			ID:             uuid.New(),
			CTCStructureID: ctcID,
			Label:          item.Label,
			Amount:         item.Amount,
			Position:       i,
		}
	}

	return &CTCStructure{
		ID:                ctcID,
		EmployeeProfileID: profileID,
		Basic:             req.Basic,
		HRA:               req.HRA,
		TaxPercent:        round2(req.TaxPercent),
		GrossCTC:          round2(req.Basic + req.HRA + allowanceTotal),
		EffectiveFrom:     effectiveFrom,
		EffectiveTo:       effectiveFrom.AddDate(1, 0, 0),
		Status:            StatusPending,
		IsApproved:        false,
		CreatedByUserID:   actorID,
		Allowances:        allowances,
		Deductions:        deductions,
	}
}

// round2 rounds to two decimals, halves away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func mapToResponse(record CTCStructure) CTCResponse {
	allowances := make([]LineItemResponse, len(record.Allowances))
	for i, a := range record.Allowances {
		allowances[i] = LineItemResponse{Label: a.Label, Amount: a.Amount}
	}
	deductions := make([]LineItemResponse, len(record.Deductions))
	for i, d := range record.Deductions {
		deductions[i] = LineItemResponse{Label: d.Label, Amount: d.Amount}
	}

	return CTCResponse{
		ID:                record.ID.String(),
		EmployeeProfileID: record.EmployeeProfileID.String(),
		Basic:             record.Basic,
		HRA:               record.HRA,
		Allowances:        allowances,
		Deductions:        deductions,
		TaxPercent:        record.TaxPercent,
		GrossCTC:          record.GrossCTC,
		EffectiveFrom:     record.EffectiveFrom.Format("2006-01-02"),
		EffectiveTo:       record.EffectiveTo.Format("2006-01-02"),
		Status:            string(record.Status),
		IsApproved:        record.IsApproved,
		CreatedBy:         record.CreatedByUserID.String(),
	}
}

func mapToListResponse(records []CTCStructure) []CTCResponse {
	resp := make([]CTCResponse, len(records))
	for i, record := range records {
		resp[i] = mapToResponse(record)
	}
	return resp
}
