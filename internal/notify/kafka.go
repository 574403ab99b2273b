package notify

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/rajeshmondalofficial/rentmate-backend/internal/identity"
)

// KafkaNotifier publishes issued OTP events for the SMS/email delivery workers.
// The writer sits behind a circuit breaker so a dead broker fails fast instead
// of stalling registration requests.
type KafkaNotifier struct {
	writer  *kafkago.Writer
	breaker *gobreaker.CircuitBreaker
	logger  *zap.SugaredLogger
}

func NewKafkaNotifier(brokers []string, topic string, logger *zap.SugaredLogger) *KafkaNotifier {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
		Async:        false,
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "otp-dispatch",
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnw("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return &KafkaNotifier{writer: w, breaker: cb, logger: logger}
}

// OTPIssued implements identity.Notifier.
func (n *KafkaNotifier) OTPIssued(ctx context.Context, event identity.OTPEvent) error {
	b, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = n.breaker.Execute(func() (interface{}, error) {
		msg := kafkago.Message{
			Key:   []byte(event.Identifier),
			Value: b,
			Time:  time.Now(),
		}
		return nil, n.writer.WriteMessages(ctx, msg)
	})
	return err
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
