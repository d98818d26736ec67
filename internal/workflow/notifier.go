package workflow

import (
	"time"

	"github.com/mkarimz/deduction-gateway/pkg/logger"
	"github.com/mkarimz/deduction-gateway/pkg/worker"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one user-facing event emitted by the workflow.
type Notification struct {
	Level         Level     `json:"level"`
	WalletAddress string    `json:"wallet_address"`
	Message       string    `json:"message"`
	At            time.Time `json:"at"`
}

// Sink consumes notifications. Sinks run on the notifier's worker pool and
// must not block indefinitely.
type Sink func(n Notification)

// LogSink writes notifications to the application log.
func LogSink(n Notification) {
	switch n.Level {
	case LevelError:
		logger.Warn("workflow notification",
			"level", n.Level, "wallet", n.WalletAddress, "message", n.Message)
	default:
		logger.Info("workflow notification",
			"level", n.Level, "wallet", n.WalletAddress, "message", n.Message)
	}
}

// Notifier dispatches notifications asynchronously through a worker pool so
// a slow sink never stalls an approval.
type Notifier struct {
	pool *worker.Manager
}

func NewNotifier(sink Sink) *Notifier {
	if sink == nil {
		sink = LogSink
	}
	return &Notifier{
		pool: worker.NewManager(256, 4, func(_ int, job interface{}) {
			if n, ok := job.(Notification); ok {
				sink(n)
			}
		}),
	}
}

func (n *Notifier) Notify(level Level, walletAddress, message string) {
	n.pool.Publish(Notification{
		Level:         level,
		WalletAddress: walletAddress,
		Message:       message,
		At:            time.Now(),
	})
}

// Close drains queued notifications and stops the pool.
func (n *Notifier) Close() {
	n.pool.Exit()
	n.pool.Wait()
}
