package notify

import (
	"context"

	"github.com/flado/awareness/internal/logging"
)

// LogNotifier writes the message to the log instead of delivering it. Used in
// offline mode where there is no SES.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Send(ctx context.Context, to, subject, body string) error {
	n.log.Info(ctx, "mail delivery skipped (offline)", "to", to, "subject", subject, "body", body)
	return nil
}
