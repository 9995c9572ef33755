package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"paydesk/internal/employee"
	employeeerrors "paydesk/internal/employee/errors"
	"paydesk/internal/events"
	"paydesk/internal/messaging/kafka"
)

type fakeEmployeeRepository struct {
	withTxFn                  func(tx *sql.Tx) employee.Repository
	createFn                  func(ctx context.Context, empl *employee.Employee) error
	findAllFn                 func(ctx context.Context) ([]employee.Employee, error)
	findByIDFn                func(ctx context.Context, id string) (*employee.Employee, error)
	findProfileByEmployeeIDFn func(ctx context.Context, employeeID string) (*employee.EmployeeProfile, error)
	deleteFn                  func(ctx context.Context, id string) error
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, empl *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, empl)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindProfileByEmployeeID(ctx context.Context, employeeID string) (*employee.EmployeeProfile, error) {
	if f.findProfileByEmployeeIDFn != nil {
		return f.findProfileByEmployeeIDFn(ctx, employeeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeCounterRepo struct {
	next int64
}

func (f *fakeCounterRepo) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error             { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error   { return nil }

type employeeServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   employee.Service
	repo      *fakeEmployeeRepository
	outbox    *fakeOutbox
	redisMock redismock.ClientMock
}

func setupEmployeeServiceTest(t *testing.T) *employeeServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	rdb, redisMock := redismock.NewClientMock()
	repo := &fakeEmployeeRepository{}
	outbox := &fakeOutbox{}
	svc := employee.NewServiceWithOutbox(db, repo, &fakeCounterRepo{}, outbox, rdb)

	return &employeeServiceDeps{
		db: db, sqlMock: sqlMock, service: svc,
		repo: repo, outbox: outbox, redisMock: redisMock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns number and stages onboarded event", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		var created *employee.Employee
		deps.repo.createFn = func(ctx context.Context, empl *employee.Employee) error {
			created = empl
			return nil
		}

		resp, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FullName:   "Asha Nair",
			Email:      "asha@example.com",
			Department: "Engineering",
		})

		assert.NoError(t, err)
		assert.Equal(t, "EMP-000001", resp.EmployeeNumber)
		assert.NotNil(t, created.Profile)
		assert.Equal(t, created.ID, created.Profile.EmployeeID)

		assert.Len(t, deps.outbox.events, 1)
		var onboarded events.EmployeeOnboardedEvent
		assert.NoError(t, json.Unmarshal(deps.outbox.events[0].Payload, &onboarded))
		assert.Equal(t, created.ID.String(), onboarded.EmployeeID)
		assert.Equal(t, created.Profile.ID.String(), onboarded.ProfileID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("keeps caller supplied number", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FullName:       "Ravi Kumar",
			Email:          "ravi@example.com",
			EmployeeNumber: "EMP-900001",
			Department:     "Finance",
		})

		assert.NoError(t, err)
		assert.Equal(t, "EMP-900001", resp.EmployeeNumber)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate email maps to conflict", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.createFn = func(ctx context.Context, empl *employee.Employee) error {
			return &pgconn.PgError{Code: "23505"}
		}

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			FullName:   "Asha Nair",
			Email:      "asha@example.com",
			Department: "Engineering",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmailTaken)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_GetOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips repository", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		cached := []employee.EmployeeResponse{{ID: uuid.New().String(), FullName: "Asha Nair"}}
		payload, err := json.Marshal(cached)
		assert.NoError(t, err)
		deps.redisMock.ExpectGet(employee.EmployeeOptionsKey).SetVal(string(payload))

		deps.repo.findAllFn = func(ctx context.Context) ([]employee.Employee, error) {
			t.Fatal("cache hit must not read the database")
			return nil, nil
		}

		resp, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Equal(t, cached, resp)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("cache miss loads and fills redis", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		deps.redisMock.ExpectGet(employee.EmployeeOptionsKey).RedisNil()
		deps.repo.findAllFn = func(ctx context.Context) ([]employee.Employee, error) {
			return []employee.Employee{{ID: id, FullName: "Asha Nair", Email: "asha@example.com"}}, nil
		}
		deps.redisMock.Regexp().ExpectSet(employee.EmployeeOptionsKey, `.*`, 10*time.Minute).SetVal("OK")

		resp, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, id.String(), resp[0].ID)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, got string) (*employee.Employee, error) {
			return &employee.Employee{
				ID:             id,
				EmployeeNumber: "EMP-000004",
				FullName:       "Asha Nair",
				Email:          "asha@example.com",
				Profile: &employee.EmployeeProfile{
					ID:         uuid.New(),
					EmployeeID: id,
					Department: "Engineering",
				},
			}, nil
		}

		resp, err := deps.service.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, "Engineering", resp.Department)
		assert.NotEmpty(t, resp.ProfileID)
	})

	t.Run("invalid id", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, "nope")

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, uuid.New().String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, got string) (*employee.Employee, error) {
			return &employee.Employee{ID: id}, nil
		}

		var deleted string
		deps.repo.deleteFn = func(ctx context.Context, got string) error {
			deleted = got
			return nil
		}

		err := deps.service.Delete(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, id.String(), deleted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("missing employee", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		err := deps.service.Delete(ctx, uuid.New().String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
