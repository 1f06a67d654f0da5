package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpgate/internal/auth/inbound"
	"github.com/shandysiswandi/otpgate/internal/auth/outbound/db"
	"github.com/shandysiswandi/otpgate/internal/auth/outbound/mq"
	"github.com/shandysiswandi/otpgate/internal/auth/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
	"github.com/shandysiswandi/otpgate/internal/pkg/ratelimit"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	CacheConn  *redis.Client              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Token      uid.StringID               `validate:"required"`
	CodeHash   hash.Hash                  `validate:"required"`
	TokenHash  hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	cfg := usecaseConfig(dep.Config)

	codeGen, err := otp.NewNumeric(cfg.CodeDigits)
	if err != nil {
		return err
	}

	dbAuth := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		Config:        cfg,
		RepoDB:        dbAuth,
		Dispatcher:    repoMsg,
		Validator:     dep.Validator,
		CodeGenerator: codeGen,
		CodeHash:      dep.CodeHash,
		TokenHash:     dep.TokenHash,
		UID:           dep.UID,
		UUID:          dep.UUID,
		Token:         dep.Token,
		Clock:         dep.Clock,
		Goroutine:     dep.Goroutine,
		Instrument:    dep.Instrument,
	})

	var limiter ratelimit.Limiter
	if dep.Config.GetBool("modules.auth.throttle.enabled") {
		limiter = ratelimit.NewFixedWindow(
			dep.CacheConn,
			"otpgate:throttle",
			dep.Config.GetInt("modules.auth.throttle.limit"),
			dep.Config.GetSecond("modules.auth.throttle.window_seconds"),
		)
	}

	inbound.RegisterHTTPEndpoint(dep.Router, uc, limiter)

	return nil
}

// usecaseConfig reads modules.auth.*; missing keys keep the usecase defaults.
func usecaseConfig(c config.Config) usecase.Config {
	cfg := usecase.DefaultConfig()

	if v := c.GetSecond("modules.auth.cooldown_seconds"); v > 0 {
		cfg.CooldownWindow = v
	}
	if v := c.GetMinute("modules.auth.code_ttl_minutes"); v > 0 {
		cfg.CodeTTL = v
	}
	if v := c.GetInt("modules.auth.max_attempts"); v > 0 {
		cfg.MaxAttempts = v
	}
	if v := c.GetDay("modules.auth.session_ttl_days"); v > 0 {
		cfg.SessionTTL = v
	}
	if v := c.GetInt("modules.auth.code_digits"); v > 0 {
		cfg.CodeDigits = v
	}
	if v := c.GetSecond("modules.auth.dispatch_timeout_seconds"); v > 0 {
		cfg.DispatchTimeout = v
	}
	cfg.ExposeDebugCode = c.GetString("app.env") != "production"

	return cfg
}
