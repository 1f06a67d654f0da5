package usecase

import (
	"fmt"
	"strconv"

	"github.com/shandysiswandi/otpgate/internal/notification/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/mail"
)

const otpEmailSubject = "Your OTP Code"

const otpEmailHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <p>Your {{.label}} code is</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">{{.code}}</p>
  <p>It expires in {{.minutes}} minute{{if ne .minutes "1"}}s{{end}}. If you did not request it, you can ignore this email.</p>
  {{- if .support_email}}
  <p>Need help? Contact <a href="mailto:{{.support_email}}">{{.support_email}}</a>.</p>
  {{- end}}
  <p style="color: #7b8794; font-size: 12px;">&copy; {{.year}} {{.app_name}}</p>
</body>
</html>`

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func (s *Usecase) otpEmail(d entity.OtpDelivery) (mail.Message, error) {
	label := entity.PurposeLabel(d.Purpose)
	minutes := d.MinutesLeft(s.clock.Now())

	data := s.baseEmailTemplateData()
	data["label"] = label
	data["code"] = d.Code
	data["minutes"] = strconv.Itoa(minutes)

	html, err := s.renderTemplate("otp_email", otpEmailHTML, data)
	if err != nil {
		return mail.Message{}, err
	}

	return mail.Message{
		To:       []string{d.Recipient},
		Subject:  otpEmailSubject,
		TextBody: fmt.Sprintf("Your %s code is %s. It expires in %d minute%s.", label, d.Code, minutes, plural(minutes)),
		HTMLBody: html,
	}, nil
}

func (s *Usecase) otpSms(d entity.OtpDelivery) string {
	minutes := d.MinutesLeft(s.clock.Now())
	return fmt.Sprintf("%s code: %s. Valid for %d minute%s. Do not share it.",
		entity.PurposeLabel(d.Purpose), d.Code, minutes, plural(minutes))
}
