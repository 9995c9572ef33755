package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"paydesk/internal/attendance"
	"paydesk/internal/bootstrap"
	"paydesk/internal/ctc"
	"paydesk/internal/employee"
	"paydesk/internal/messaging/kafka"
	"paydesk/internal/payslip"
	"paydesk/internal/rbac"
	"paydesk/internal/rbac/infra"
	"paydesk/internal/shared/counter"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	ctcRepo := ctc.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payslipRepo := payslip.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	auditLogger := bootstrap.NewStdoutAuditLogger()

	// --- Services ---
	attendanceService := attendance.NewService(attendanceRepo)
	ctcService := ctc.NewServiceWithCollaborators(db, ctcRepo, outboxRepo, auditLogger)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo, rdb)
	payslipService := payslip.NewService(
		db, payslipRepo, ctcRepo, counterRepo, attendanceService, outboxRepo, auditLogger,
	)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService)
	rbacHandler := rbac.NewHandler(rbacService)
	ctcHandler := ctc.NewHandler(ctcService)
	employeeHandler := employee.NewHandler(employeeService)
	payslipHandler := payslip.NewHandler(payslipService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		ctc.RegisterRoutes(api, ctcHandler, rbacService, rdb)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		payslip.RegisterRoutes(api, payslipHandler, rbacService, rdb)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
