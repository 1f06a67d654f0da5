package usecase

import (
	"errors"
	"maps"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
)

// validate runs the struct rules of in and, when the channel is known and the
// identifier passed them, the channel-specific format rule on identifier.
func (s *Usecase) validate(in any, identifier string, ch entity.Channel) error {
	fields := validator.V10ValidationError{}

	if err := s.validator.Validate(in); err != nil {
		var verr validator.V10ValidationError
		if !errors.As(err, &verr) {
			return goerror.NewInvalidInput(err)
		}
		maps.Copy(fields, verr.Values())
	}

	if _, failed := fields["identifier"]; !failed && ch != "" {
		tag, msg := "email", "The identifier field must be a valid email address."
		if ch == entity.ChannelSMS {
			tag, msg = "phone", "The identifier field must be a valid phone number."
		}
		if err := s.validator.Var(identifier, tag); err != nil {
			fields["identifier"] = msg
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return goerror.NewInvalidInput(fields)
}
