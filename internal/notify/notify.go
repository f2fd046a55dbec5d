// Package notify renders and delivers the run report. Delivery is isolated
// from the acquisition run: by the time anything is sent, the run's results
// are already durable, and a send failure never changes the run's outcome.
package notify

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/parlwatch/hansard/internal/digest"
	"github.com/parlwatch/hansard/internal/hansard"
	"github.com/parlwatch/hansard/internal/manifest"
)

// Message is a rendered notification ready for a Sender.
type Message struct {
	Subject     string
	Body        string
	Attachments []string
}

// Sender delivers a message. Implementations own transport details.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier builds messages from run results and hands them to a Sender.
type Notifier struct {
	sender Sender
	// root is the transcripts root; manifest paths are relative to it.
	root   string
	attach bool
	logger *log.Logger
}

// New assembles a notifier.
func New(sender Sender, root string, attach bool, logger *log.Logger) *Notifier {
	if logger == nil {
		logger = log.New(log.Writer(), "[NOTIFY] ", log.LstdFlags)
	}
	return &Notifier{sender: sender, root: root, attach: attach, logger: logger}
}

// Deliver sends the report for a run. A run with no new documents sends
// nothing.
func (n *Notifier) Deliver(ctx context.Context, m *manifest.RunManifest, d digest.Digest) error {
	if m.NewCount == 0 {
		n.logger.Printf("no new transcripts, nothing to send")
		return nil
	}
	msg := n.render(m, d)
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	n.logger.Printf("notification sent: %d new transcripts, %d attachments", m.NewCount, len(msg.Attachments))
	return nil
}

func (n *Notifier) render(m *manifest.RunManifest, d digest.Digest) Message {
	subject := fmt.Sprintf("Hansard: %d new transcript(s) (Assembly %d, Council %d)",
		m.NewCount, m.CountFor(hansard.Assembly), m.CountFor(hansard.Council))

	var b strings.Builder
	fmt.Fprintf(&b, "Run %s finished %s\n", m.RunID, m.FinishedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "New transcripts: %d (skipped %d already seen, %d failed)\n\n",
		m.NewCount, m.SkippedCount, m.FailedCount)
	for _, c := range hansard.Chambers {
		for _, p := range m.NewByChamber[c.String()] {
			fmt.Fprintf(&b, "  [%s] %s\n", c.Label(), p)
		}
	}
	b.WriteString("\n=== DIGEST ===\n\n")
	b.WriteString(d.Render())

	msg := Message{Subject: subject, Body: b.String()}
	if n.attach {
		for _, c := range hansard.Chambers {
			for _, p := range m.NewByChamber[c.String()] {
				msg.Attachments = append(msg.Attachments, filepath.Join(n.root, p))
			}
		}
	}
	return msg
}
