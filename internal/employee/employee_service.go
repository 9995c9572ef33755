package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	employeeerrors "paydesk/internal/employee/errors"
	"paydesk/internal/events"
	"paydesk/internal/messaging/kafka"
	"paydesk/internal/shared/contextutil"
	"paydesk/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const EmployeeOptionsKey = "employees:options"

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counter counter.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, counter, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		outbox:  outboxRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if req.EmployeeNumber == "" {
		nextVal, err := s.counter.GetNextValue(ctx, "employee_number")
		if err != nil {
			s.logger.Error("create employee generate number failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		req.EmployeeNumber = fmt.Sprintf("EMP-%06d", nextVal)
	}

	employeeID := uuid.New()
	empl := &Employee{
		ID:             employeeID,
		EmployeeNumber: req.EmployeeNumber,
		FullName:       req.FullName,
		Email:          req.Email,
		Profile: &EmployeeProfile{
			ID:         uuid.New(),
			EmployeeID: employeeID,
			Department: req.Department,
			Phone:      req.Phone,
			Address:    req.Address,
		},
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapUniqueViolation(err)
	}

	if s.outbox != nil {
		if err := s.stageOnboardedEvent(ctx, qtx, tx, rid, empl); err != nil {
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)

	s.logger.Info("employee onboarded",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.String("employee_number", empl.EmployeeNumber),
	)

	return mapToResponse(*empl), nil
}

func (s *service) stageOnboardedEvent(
	ctx context.Context,
	qtx Repository,
	tx *sql.Tx,
	rid string,
	empl *Employee,
) error {
	event := events.EmployeeOnboardedEvent{
		EventType:  "employee.onboarded",
		EmployeeID: empl.ID.String(),
		ProfileID:  empl.Profile.ID.String(),
		Email:      empl.Email,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     rid,
		AggregateType: "employee",
		AggregateID:   empl.ID.String(),
		EventType:     event.EventType,
		Topic:         events.EmployeeOnboardedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(employees), nil
}

// GetOptions serves the dropdown-style employee list through redis with a
// singleflight guard so a cold cache triggers one DB read, not a stampede.
func (s *service) GetOptions(ctx context.Context) ([]EmployeeResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, EmployeeOptionsKey).Result(); err == nil {
			var resp []EmployeeResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	result, err, _ := s.sf.Do(EmployeeOptionsKey, func() (interface{}, error) {
		employees, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		resp := mapToListResponse(employees)

		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				_ = s.rdb.Set(ctx, EmployeeOptionsKey, payload, 10*time.Minute).Err()
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]EmployeeResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*empl), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return employeeerrors.ErrEmployeeNotFound
		}
		return err
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("employee deleted", zap.String("employee_id", id))
	return nil
}

func (s *service) invalidateOptionsCache(ctx context.Context) {
	if s.rdb != nil {
		_ = s.rdb.Del(ctx, EmployeeOptionsKey).Err()
	}
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return employeeerrors.ErrEmailTaken
	}
	return err
}

func mapToResponse(empl Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             empl.ID.String(),
		EmployeeNumber: empl.EmployeeNumber,
		FullName:       empl.FullName,
		Email:          empl.Email,
	}
	if empl.Profile != nil {
		resp.ProfileID = empl.Profile.ID.String()
		resp.Department = empl.Profile.Department
		resp.Phone = empl.Profile.Phone
		resp.Address = empl.Profile.Address
	}
	return resp
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(employees))
	for i, empl := range employees {
		resp[i] = mapToResponse(empl)
	}
	return resp
}
