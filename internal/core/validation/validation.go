// Package validation is the pure rule engine for auth input: missing-field
// detection and per-field format rules. It never touches storage; uniqueness
// checks live in the service layer.
package validation

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 15
	emailMaxLen    = 320
	passwordMinLen = 8
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_-]*$`)
	// Intentionally permissive shape, not RFC 5322.
	emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// Errors is a structured validation failure: either a top-level message for
// missing required fields, or an itemized per-field violation map. It renders
// as a 400 with {"error": Message} plus {"invalid": Fields} when present.
type Errors struct {
	Message string
	Fields  map[string][]string
}

func (e *Errors) Error() string { return e.Message }

// Field is one raw input key/value pair. Order is significant: missing keys
// are reported in the order the caller lists them.
type Field struct {
	Key   string
	Value string
}

// Required returns an Errors naming every absent body field, or nil when all
// are present. Missing-field detection runs before any format rule.
func Required(fields ...Field) *Errors {
	return required("Missing fields in request: ", fields)
}

// RequiredCookies is Required for cookie-carried values.
func RequiredCookies(fields ...Field) *Errors {
	return required("Missing fields in cookies: ", fields)
}

func required(prefix string, fields []Field) *Errors {
	var missing []string
	for _, f := range fields {
		if f.Value == "" {
			missing = append(missing, f.Key)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &Errors{Message: prefix + strings.Join(missing, ", ")}
}

// Username collects every violated username rule. All rules run; nothing is
// fail-fast.
func Username(username string) []string {
	errs := []string{}
	if len(username) < usernameMinLen {
		errs = append(errs, "Username must be at least 3 characters long")
	}
	if len(username) > usernameMaxLen {
		errs = append(errs, "Username must be at most 15 characters long")
	}
	if !usernameRe.MatchString(username) {
		errs = append(errs, "Username must only contain letters, numbers, underscores and dashes")
	}
	return errs
}

// Email collects every violated email rule.
func Email(email string) []string {
	errs := []string{}
	if len(email) > emailMaxLen {
		errs = append(errs, "Email must be at most 320 characters long")
	}
	if !emailRe.MatchString(email) {
		errs = append(errs, "Email is not in a valid format")
	}
	return errs
}

// Password collects every violated password rule. There is no
// special-character requirement.
func Password(password string) []string {
	errs := []string{}
	if len(password) < passwordMinLen {
		errs = append(errs, "Password must be at least 8 characters long")
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		errs = append(errs, "Password must contain at least one uppercase letter")
	}
	if !lower {
		errs = append(errs, "Password must contain at least one lowercase letter")
	}
	if !digit {
		errs = append(errs, "Password must contain at least one number")
	}
	return errs
}

// Invalid bundles per-field violation lists into an Errors, or returns nil
// when every list is empty. Every checked field appears in the map, empty
// lists included, matching the wire contract.
func Invalid(fields map[string][]string) *Errors {
	any := false
	for _, violations := range fields {
		if len(violations) > 0 {
			any = true
			break
		}
	}
	if !any {
		return nil
	}
	return &Errors{Message: "Invalid parameter data provided.", Fields: fields}
}
