package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrTooManyOtpRequests = goerror.NewBusiness(
		"E1006_TOO_MANY_OTP_REQUESTS", "Please wait before requesting another OTP.", goerror.CodeTooManyRequest)
	ErrOtpNotFoundOrExpired = goerror.NewBusiness(
		"E2001_OTP_NOT_FOUND_OR_EXPIRED", "OTP not found or expired. Please request a new one.", goerror.CodeBadRequest)
	ErrOtpMaxAttemptsReached = goerror.NewBusiness(
		"E2002_OTP_MAX_ATTEMPTS_REACHED", "Maximum OTP attempts reached. Please request a new OTP.", goerror.CodeBadRequest)
	ErrInvalidOtpCode = goerror.NewBusiness(
		"E2003_INVALID_OTP", "Invalid OTP code.", goerror.CodeBadRequest)
)

// OtpStore persists issued codes.
type OtpStore interface {
	// LockOtpIssuance serializes issuance for identifier and purpose until the
	// surrounding transaction ends.
	LockOtpIssuance(ctx context.Context, identifier string, purpose entity.Purpose) error
	// GetLatestOtp returns the newest code for identifier and purpose on any
	// channel, used or not.
	GetLatestOtp(ctx context.Context, identifier string, purpose entity.Purpose) (*entity.Otp, error)
	CreateOtp(ctx context.Context, o entity.Otp) error
	// GetActiveOtpForUpdate returns the newest unused, unexpired code and locks it.
	GetActiveOtpForUpdate(ctx context.Context, identifier string, ch entity.Channel, purpose entity.Purpose, now time.Time) (*entity.Otp, error)
	IncrementOtpAttempts(ctx context.Context, id string) error
	MarkOtpUsed(ctx context.Context, id string) error
}

// UserDirectory finds and creates users keyed by verified identifiers.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	GetUserByIdentifier(ctx context.Context, ch entity.Channel, identifier string) (*entity.User, error)
	CreateUser(ctx context.Context, u entity.User) error
	MarkUserVerified(ctx context.Context, id int64, ch entity.Channel, now time.Time) error
}

// SessionIssuer stores bearer sessions.
type SessionIssuer interface {
	CreateSession(ctx context.Context, sess entity.Session) error
}

// Store is everything the engine reads and writes.
type Store interface {
	OtpStore
	UserDirectory
	SessionIssuer
}

type repoDB interface {
	Store
	// Atomic runs fn in one transaction; the Store given to fn is bound to it.
	// The transaction commits when fn returns nil.
	Atomic(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// OtpNotification is what a dispatcher needs to deliver a code.
type OtpNotification struct {
	Recipient string
	Code      string
	Purpose   entity.Purpose
	ExpiresAt time.Time
}

// NotificationDispatcher delivers codes. Failures are logged by the caller
// and never fail the request.
type NotificationDispatcher interface {
	SendEmail(ctx context.Context, n OtpNotification) error
	SendSms(ctx context.Context, n OtpNotification) error
}

// Config holds the engine tunables.
type Config struct {
	CooldownWindow  time.Duration
	CodeTTL         time.Duration
	MaxAttempts     int
	SessionTTL      time.Duration
	CodeDigits      int
	ExposeDebugCode bool
	DispatchTimeout time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		CooldownWindow:  time.Minute,
		CodeTTL:         5 * time.Minute,
		MaxAttempts:     5,
		SessionTTL:      30 * 24 * time.Hour,
		CodeDigits:      6,
		DispatchTimeout: 5 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.CooldownWindow <= 0 {
		c.CooldownWindow = def.CooldownWindow
	}
	if c.CodeTTL <= 0 {
		c.CodeTTL = def.CodeTTL
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = def.SessionTTL
	}
	if c.CodeDigits <= 0 {
		c.CodeDigits = def.CodeDigits
	}
	if c.DispatchTimeout <= 0 {
		c.DispatchTimeout = def.DispatchTimeout
	}
	return c
}

type Usecase struct {
	cfg        Config
	repoDB     repoDB
	dispatcher NotificationDispatcher
	validator  validator.Validator
	codeGen    otp.Generator
	codeHash   hash.Hash
	tokenHash  hash.Hash
	uid        uid.NumberID
	uuid       uid.StringID
	token      uid.StringID
	clock      clock.Clocker
	goroutine  *goroutine.Manager
	ins        instrument.Instrumentation

	requested metric.Int64Counter
	verified  metric.Int64Counter
	rejected  metric.Int64Counter
}

type Dependency struct {
	Config        Config
	RepoDB        repoDB
	Dispatcher    NotificationDispatcher
	Validator     validator.Validator
	CodeGenerator otp.Generator
	CodeHash      hash.Hash
	TokenHash     hash.Hash
	UID           uid.NumberID
	UUID          uid.StringID
	Token         uid.StringID
	Clock         clock.Clocker
	Goroutine     *goroutine.Manager
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	ins := dep.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	s := &Usecase{
		cfg:        dep.Config.withDefaults(),
		repoDB:     dep.RepoDB,
		dispatcher: dep.Dispatcher,
		validator:  dep.Validator,
		codeGen:    dep.CodeGenerator,
		codeHash:   dep.CodeHash,
		tokenHash:  dep.TokenHash,
		uid:        dep.UID,
		uuid:       dep.UUID,
		token:      dep.Token,
		clock:      dep.Clock,
		goroutine:  dep.Goroutine,
		ins:        ins,
	}

	meter := ins.Meter("auth.usecase")
	var err error
	if s.requested, err = meter.Int64Counter("otp.requested", metric.WithDescription("Number of OTP codes issued")); err != nil {
		slog.Error("failed to create otp requested counter", "error", err)
	}
	if s.verified, err = meter.Int64Counter("otp.verified", metric.WithDescription("Number of successful OTP verifications")); err != nil {
		slog.Error("failed to create otp verified counter", "error", err)
	}
	if s.rejected, err = meter.Int64Counter("otp.rejected", metric.WithDescription("Number of refused OTP requests and verifications")); err != nil {
		slog.Error("failed to create otp rejected counter", "error", err)
	}

	return s
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.usecase").Start(ctx, name)
}

func (s *Usecase) count(ctx context.Context, c metric.Int64Counter, attrs ...attribute.KeyValue) {
	if c == nil {
		return
	}
	c.Add(ctx, 1, metric.WithAttributes(attrs...))
}
