// Package validate holds input format checks for account fields. Rules is an
// explicitly constructed, process-lifetime value injected into the services,
// not a hidden package-level singleton.
package validate

import (
	"net/mail"
	"regexp"

	"wego/internal/domain"
)

type Rules struct {
	username *regexp.Regexp
	password *regexp.Regexp
}

func NewRules() Rules {
	return Rules{
		// 5-30 word characters, first one alphanumeric
		username: regexp.MustCompile(`^[a-zA-Z0-9]\w{4,29}$`),
		// 8-30 visible ASCII characters
		password: regexp.MustCompile(`^[\x21-\x7e]{8,30}$`),
	}
}

func (r Rules) Username(s string) error {
	if !r.username.MatchString(s) {
		return domain.E(domain.KindValidation,
			"username must be 5-30 letters, digits or underscores, starting with a letter or digit")
	}
	return nil
}

func (r Rules) Password(s string) error {
	if !r.password.MatchString(s) {
		return domain.E(domain.KindValidation,
			"password must be 8-30 visible ASCII characters")
	}
	return nil
}

func (r Rules) PasswordPair(password, confirm string) error {
	if err := r.Password(password); err != nil {
		return err
	}
	if password != confirm {
		return domain.E(domain.KindValidation, "passwords do not match")
	}
	return nil
}

func (r Rules) Email(s string) error {
	if len(s) < 5 || len(s) > 30 {
		return domain.E(domain.KindValidation, "email must be 5-30 characters")
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return domain.E(domain.KindValidation, "email format is invalid")
	}
	return nil
}
