package usecase

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/mail"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultRetryBase    = 200 * time.Millisecond
	defaultRetryCap     = 2 * time.Second
	defaultMaxRetries   = 3
	defaultDedupeWindow = 10 * time.Minute
)

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type repoSms interface {
	Send(ctx context.Context, phone, text string) error
}

type Usecase struct {
	cfg         config.Config
	clock       clock.Clocker
	validator   validator.Validator
	repoMail    repoMail
	repoSms     repoSms
	idempotency idempotency.Idempotency
	ins         instrument.Instrumentation
	deliveries  metric.Int64Counter
}

type Dependency struct {
	Config      config.Config
	Clock       clock.Clocker
	Validator   validator.Validator
	RepoMail    repoMail
	RepoSms     repoSms
	Idempotency idempotency.Idempotency
	Instrument  instrument.Instrumentation
}

func NewNotification(dep Dependency) *Usecase {
	ins := dep.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	s := &Usecase{
		cfg:         dep.Config,
		clock:       dep.Clock,
		validator:   dep.Validator,
		repoMail:    dep.RepoMail,
		repoSms:     dep.RepoSms,
		idempotency: dep.Idempotency,
		ins:         ins,
	}

	var err error
	s.deliveries, err = ins.Meter("notification.usecase").Int64Counter("otp.deliveries",
		metric.WithDescription("Number of OTP delivery outcomes by channel and status"))
	if err != nil {
		slog.Error("failed to create otp deliveries counter", "error", err)
	}

	return s
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

func (s *Usecase) count(ctx context.Context, attrs ...attribute.KeyValue) {
	if s.deliveries == nil {
		return
	}
	s.deliveries.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// backoff builds the delivery retry policy from modules.notification.retry.*.
func (s *Usecase) backoff() retry.Backoff {
	base := s.cfg.GetDuration("modules.notification.retry.base")
	if base <= 0 {
		base = defaultRetryBase
	}
	ceiling := s.cfg.GetDuration("modules.notification.retry.cap")
	if ceiling <= 0 {
		ceiling = defaultRetryCap
	}
	maxRetries := s.cfg.GetInt("modules.notification.retry.max_retries")
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	b := retry.NewFibonacci(base)
	b = retry.WithCappedDuration(ceiling, b)
	return retry.WithMaxRetries(uint64(maxRetries), b)
}

func (s *Usecase) dedupeWindow() time.Duration {
	if d := s.cfg.GetMinute("modules.notification.dedupe_window_minutes"); d > 0 {
		return d
	}
	return defaultDedupeWindow
}

func (s *Usecase) renderTemplate(name, tpl string, data map[string]any) (string, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *Usecase) baseEmailTemplateData() map[string]any {
	appName := s.cfg.GetString("app.name")
	if appName == "" {
		appName = "otpgate"
	}
	return map[string]any{
		"app_name":      appName,
		"support_email": s.cfg.GetString("mail.support_address"),
		"year":          s.clock.Now().Format("2006"),
	}
}
