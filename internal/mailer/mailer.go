// Package mailer delivers outreach campaigns over SMTP and keeps an
// append-only log of every attempt.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/hrkit/talentscout/internal/outreach"
)

// ErrNoEmail marks a candidate that cannot be contacted. The candidate stays
// in the shortlist; only delivery skips them.
var ErrNoEmail = errors.New("no email address")

// Sender delivers a single message. The SMTP implementation lives behind
// this so campaign logic is testable without a mail server.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Config holds the SMTP connection settings. Password is resolved through
// the secrets loader before this struct is built.
type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"-"`
	From     string `mapstructure:"from"`
}

// SMTPSender sends mail through an authenticated STARTTLS session.
type SMTPSender struct {
	client *mail.Client
	from   string
}

// NewSMTPSender dials nothing yet; the connection is established per send.
func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPSender{client: client, from: cfg.From}, nil
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	return s.client.DialAndSendWithContext(ctx, msg)
}

// Delivery is the per-recipient outcome of a campaign send. RecordID ties
// the outcome back to the campaign record; names and addresses may repeat
// across a shortlist.
type Delivery struct {
	RecordID      string `json:"-"`
	CandidateName string `json:"name"`
	Recipient     string `json:"email,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// Summary aggregates a campaign send. Failed includes both delivery errors
// and candidates skipped for having no address.
type Summary struct {
	Total  int        `json:"total_candidates"`
	Sent   []Delivery `json:"sent_to"`
	Failed []Delivery `json:"failed_to"`
}

// Mailer sends campaigns and records every attempt in the log.
type Mailer struct {
	sender Sender
	log    *Log
	logger *zap.Logger
}

func New(sender Sender, log *Log, logger *zap.Logger) *Mailer {
	return &Mailer{sender: sender, log: log, logger: logger}
}

// deliverable mirrors the loader's email validity rule.
func deliverable(email string) bool {
	switch strings.ToLower(strings.TrimSpace(email)) {
	case "", "not available", "n/a":
		return false
	}
	return true
}

// SendCampaign delivers each record in order. Individual failures never
// abort the batch; they land in the summary with a reason.
func (m *Mailer) SendCampaign(ctx context.Context, records []outreach.Record) (*Summary, error) {
	summary := &Summary{}

	for _, r := range records {
		summary.Total++

		if !deliverable(r.Recipient) {
			summary.Failed = append(summary.Failed, Delivery{
				RecordID:      r.ID,
				CandidateName: r.CandidateName,
				Reason:        ErrNoEmail.Error(),
			})
			m.record(r, StatusSkipped)
			if m.logger != nil {
				m.logger.Warn("skipping candidate without email address",
					zap.String("candidate", r.CandidateName),
				)
			}
			continue
		}

		if err := m.sender.Send(ctx, r.Recipient, r.Subject, r.Body); err != nil {
			summary.Failed = append(summary.Failed, Delivery{
				RecordID:      r.ID,
				CandidateName: r.CandidateName,
				Recipient:     r.Recipient,
				Reason:        err.Error(),
			})
			m.record(r, StatusFailed)
			if m.logger != nil {
				m.logger.Error("email delivery failed",
					zap.String("candidate", r.CandidateName),
					zap.String("recipient", r.Recipient),
					zap.Error(err),
				)
			}
			continue
		}

		summary.Sent = append(summary.Sent, Delivery{
			RecordID:      r.ID,
			CandidateName: r.CandidateName,
			Recipient:     r.Recipient,
		})
		m.record(r, StatusSent)
		if m.logger != nil {
			m.logger.Info("email sent",
				zap.String("candidate", r.CandidateName),
				zap.String("recipient", r.Recipient),
			)
		}
	}

	if m.log != nil {
		if err := m.log.Flush(); err != nil {
			return summary, fmt.Errorf("write email log: %w", err)
		}
	}
	return summary, nil
}

func (m *Mailer) record(r outreach.Record, status Status) {
	if m.log == nil {
		return
	}
	m.log.Append(Entry{
		Timestamp:     nowUTC(),
		CandidateName: r.CandidateName,
		Recipient:     r.Recipient,
		JobTitle:      r.JobTitle,
		Subject:       r.Subject,
		Status:        status,
	})
}
