package form

import (
	"fmt"
	"regexp"
	"strings"
)

const defaultMaxPictureBytes = 1 << 20

var (
	nameRegex        = regexp.MustCompile(`^[A-Z][a-zA-Z]{0,49}$`)
	basicEmailRegex  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s]+$`)
	strictEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9.]+@[a-zA-Z0-9.]+$`)
)

// ValidationError describes the first rule a form violates. Message is meant for the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Profile is a set of validation rules together with the defaults that go with them.
type Profile struct {
	Name               string
	DefaultCountryCode string
	MaxPictureBytes    int
	validate           func(*Form) error
}

// Basic requires every field except the picture and checks names and the email address
// loosely.
var Basic = Profile{
	Name:            "basic",
	MaxPictureBytes: defaultMaxPictureBytes,
	validate:        validateBasic,
}

// Strict additionally requires a ten digit contact number and a plain email address, and
// preselects the United States country code.
var Strict = Profile{
	Name:               "strict",
	DefaultCountryCode: "+1",
	MaxPictureBytes:    defaultMaxPictureBytes,
	validate:           validateStrict,
}

// ProfileByName returns the profile with the given name.
func ProfileByName(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Basic.Name:
		return Basic, nil
	case Strict.Name:
		return Strict, nil
	default:
		return Profile{}, fmt.Errorf("unknown form profile %q", name)
	}
}

// WithMaxPictureBytes returns a copy of the profile with a different picture size limit.
func (p Profile) WithMaxPictureBytes(n int) Profile {
	p.MaxPictureBytes = n
	return p
}

func validateBasic(f *Form) error {
	if isBlank(f.Get(FirstName)) || isBlank(f.Get(LastName)) || f.Get(ContactNumber) == "" || f.Get(Email) == "" {
		return &ValidationError{Message: "All fields except image are required."}
	}
	if err := validateNames(f); err != nil {
		return err
	}
	if !basicEmailRegex.MatchString(f.Get(Email)) {
		return &ValidationError{Field: Email, Message: "Invalid email format."}
	}
	return nil
}

func validateStrict(f *Form) error {
	if err := validateNames(f); err != nil {
		return err
	}
	number := f.Get(ContactNumber)
	if len(number) != contactNumberDigits || number[0] == '0' {
		return &ValidationError{Field: ContactNumber, Message: "Contact number must be 10 digits and not start with 0."}
	}
	email := f.Get(Email)
	if !strictEmailRegex.MatchString(email) || strings.Count(email, "@") != 1 {
		return &ValidationError{
			Field:   Email,
			Message: "Email must be valid and contain exactly one '@' with no special characters other than '.' and '@'.",
		}
	}
	return nil
}

func validateNames(f *Form) error {
	if !nameRegex.MatchString(f.Get(FirstName)) {
		return &ValidationError{
			Field:   FirstName,
			Message: "First name must start with a capital letter and only contain alphabets (max 50 chars).",
		}
	}
	if !nameRegex.MatchString(f.Get(LastName)) {
		return &ValidationError{
			Field:   LastName,
			Message: "Last name must start with a capital letter and only contain alphabets (max 50 chars).",
		}
	}
	return nil
}
