package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"

	"flightdeal-service/internal/domain/entity"
	"flightdeal-service/internal/domain/repository"
	"flightdeal-service/pkg/logger"
	"flightdeal-service/pkg/validation"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// DealSubject is the subject line of every deal alert
const DealSubject = "Low price alert!"

// Notifier delivers deal alerts through the Gmail API
type Notifier struct {
	gmailService *gmail.Service
	logger       logger.Logger
	sender       string
}

// NewNotifier creates a new Gmail notifier sending as sender ("me" for the
// authorised account).
func NewNotifier(ctx context.Context, sender string, logger logger.Logger, opts ...option.ClientOption) (*Notifier, error) {
	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	if sender == "" {
		sender = "me"
	}

	return &Notifier{
		gmailService: service,
		logger:       logger,
		sender:       sender,
	}, nil
}

var _ repository.NotificationRepository = (*Notifier)(nil)

// Send delivers body to every recipient, one message each. Addresses that are
// not a single valid email are rejected before any header is built. Failures
// do not stop the remaining sends; they are returned joined.
func (n *Notifier) Send(ctx context.Context, recipients []string, body string) error {
	var errs []error
	sent := 0

	for _, recipient := range recipients {
		if err := validation.Var(recipient, "required,email"); err != nil {
			n.logger.Warn("Rejecting invalid recipient address", "recipient", recipient)
			errs = append(errs, fmt.Errorf("%w: invalid recipient %q: %v", entity.ErrDataShape, recipient, err))
			continue
		}

		msg := &gmail.Message{
			Raw: base64.URLEncoding.EncodeToString(buildMessage(recipient, DealSubject, body)),
		}

		result, err := n.gmailService.Users.Messages.Send(n.sender, msg).Context(ctx).Do()
		if err != nil {
			n.logger.Error("Failed to send deal alert", "recipient", recipient, "error", err)
			errs = append(errs, fmt.Errorf("%w: send to %s: %v", entity.ErrTransport, recipient, err))
			continue
		}

		sent++
		n.logger.Debug("Deal alert sent", "recipient", recipient, "messageID", result.Id)
	}

	n.logger.Info("Deal alerts delivered", "sent", sent, "failed", len(errs))
	return errors.Join(errs...)
}

func buildMessage(to, subject, body string) []byte {
	var sb strings.Builder
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return []byte(sb.String())
}
