package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"

	"github.com/konalla/appadhesionudrgv3-sub000/internal/config"
	"github.com/konalla/appadhesionudrgv3-sub000/internal/domain"
)

// Service mails maintenance summaries to the operations address. When
// no REPORT_EMAIL is configured every send is a no-op.
type Service interface {
	SendReconcileReport(ctx context.Context, report domain.ReconcileReport) error
	SendOrphanReport(ctx context.Context, report domain.OrphanReport) error
}

type service struct {
	client *resend.Client
	config *config.Config
}

func NewService(cfg *config.Config) Service {
	return &service{
		client: resend.NewClient(cfg.ResendAPIKey),
		config: cfg,
	}
}

var reconcileTmpl = template.Must(template.New("reconcile").Parse(`
<h2>Photo reconciliation run</h2>
<p>Checked: {{.Checked}} &mdash; repaired: {{.Repaired}} &mdash; duplicates split: {{.Deduplicated}}</p>
{{if .Unresolved}}
<h3>Unresolved references ({{len .Unresolved}})</h3>
<ul>
{{range .Unresolved}}<li>member {{.MembershipID}} &rarr; <code>{{.PhotoID}}</code></li>
{{end}}
</ul>
{{else}}
<p>All references resolved.</p>
{{end}}
`))

var orphanTmpl = template.Must(template.New("orphan").Parse(`
<h2>Photo orphan collection run</h2>
<p>Removed: {{.Removed}} &mdash; kept: {{.Kept}}</p>
`))

func (s *service) SendReconcileReport(ctx context.Context, report domain.ReconcileReport) error {
	subject := fmt.Sprintf("Photo reconciliation: %d repaired, %d unresolved", report.Repaired, len(report.Unresolved))
	return s.send(subject, reconcileTmpl, report)
}

func (s *service) SendOrphanReport(ctx context.Context, report domain.OrphanReport) error {
	subject := fmt.Sprintf("Photo orphan collection: %d removed", report.Removed)
	return s.send(subject, orphanTmpl, report)
}

func (s *service) send(subject string, tmpl *template.Template, data any) error {
	if s.config.ReportEmail == "" {
		return nil
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render report email: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Membership Photos <%s>", s.config.FromEmail),
		To:      []string{s.config.ReportEmail},
		Html:    body.String(),
		Subject: subject,
	}

	_, err := s.client.Emails.Send(params)
	return err
}
