package app

import (
	"fmt"

	"github.com/shandysiswandi/otpgate/internal/auth"
	"github.com/shandysiswandi/otpgate/internal/notification"
)

func (a *App) initModules() error {
	a.router.GET("/health", a.health)

	if a.config.GetBool("modules.auth.enabled") {
		if err := auth.New(auth.Dependency{
			DBConn:     a.dbConn,
			CacheConn:  a.cacheConn,
			Goroutine:  a.goroutine,
			Router:     a.router,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			Token:      a.token,
			CodeHash:   a.codeHash,
			TokenHash:  a.tokenHash,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	// The consumer may run in a separate deployment from the HTTP API; both
	// switches are independent.
	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:        a.ctx,
			CacheConn:  a.cacheConn,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UUID:       a.uuid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Mail:       a.mail,
		}); err != nil {
			return fmt.Errorf("notification: %w", err)
		}
	}

	return nil
}
