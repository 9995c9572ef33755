package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"paydesk/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Mailer is the external email collaborator. Delivery failures are logged,
// never propagated back into the lifecycle engine.
type Mailer interface {
	Send(ctx context.Context, profileID, subject, body string) error
}

func ConsumePayslipReleased(
	ctx context.Context,
	reader *kafkago.Reader,
	mailer Mailer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payslip_released")
	log.Info("payslip released consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payslip released consumer stopped")
				return
			}
			log.Error("fetch payslip released message failed", zap.Error(err))
			continue
		}

		var event events.PayslipReleasedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payslip released event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		subject := fmt.Sprintf("Your payslip for %04d-%02d has been released", event.Year, event.Month)
		body := fmt.Sprintf("Net pay: %.2f", event.NetPay)

		if err := mailer.Send(ctx, event.EmployeeProfileID, subject, body); err != nil {
			log.Error("send payslip released email failed",
				zap.String("payslip_id", event.PayslipID),
				zap.String("employee_profile_id", event.EmployeeProfileID),
				zap.Error(err),
			)
			// fall through: the release already stands, do not redeliver forever
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payslip released message failed", zap.Error(err))
			continue
		}

		log.Info("payslip released email dispatched",
			zap.String("payslip_id", event.PayslipID),
			zap.String("employee_profile_id", event.EmployeeProfileID),
		)
	}
}

// LogMailer stands in for a real mail gateway in environments without one.
type LogMailer struct {
	Logger *zap.Logger
}

func (m *LogMailer) Send(ctx context.Context, profileID, subject, body string) error {
	m.Logger.Info("email dispatched",
		zap.String("employee_profile_id", profileID),
		zap.String("subject", subject),
	)
	return nil
}
