// Package form holds the contact form of the client: its values, the rules for editing them
// and the validation that runs before anything is sent to the service.
package form

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"

	"github.com/gabriel-vasile/mimetype"

	"gitlab.com/dirk.krummacker/contact-manager/internal/model"
)

// Names of the form fields, as used in the JSON of the API.
const (
	FirstName     = "firstName"
	LastName      = "lastName"
	CountryCode   = "countryCode"
	ContactNumber = "contactNumber"
	Dob           = "dob"
	Email         = "email"
	Picture       = "picture"
)

const contactNumberDigits = 10

// Form is the state of the contact form. All values are kept as the user typed them; they are
// converted when the form is submitted.
type Form struct {
	profile Profile
	values  map[string]string
}

// New returns an empty form that is validated according to the given profile.
func New(profile Profile) *Form {
	f := &Form{profile: profile}
	f.Reset()
	return f
}

// Profile returns the profile the form was created with.
func (f *Form) Profile() Profile {
	return f.profile
}

// Reset clears all fields. The country code falls back to the profile default.
func (f *Form) Reset() {
	f.values = map[string]string{
		FirstName:     "",
		LastName:      "",
		CountryCode:   f.profile.DefaultCountryCode,
		ContactNumber: "",
		Dob:           "",
		Email:         "",
		Picture:       "",
	}
}

// Get returns the current value of a field.
func (f *Form) Get(field string) string {
	return f.values[field]
}

// Set changes a single field and is the only way values get into the form. The contact
// number keeps its digits only; input that would make it longer than ten digits is ignored.
func (f *Form) Set(field, value string) error {
	if _, ok := f.values[field]; !ok {
		return fmt.Errorf("unknown field %q", field)
	}
	if field == ContactNumber {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, value)
		if len(digits) > contactNumberDigits {
			return nil
		}
		value = digits
	}
	f.values[field] = value
	return nil
}

// SetPicture stores an image file as a data URI. Files that are not images or that exceed the
// size limit of the profile are rejected.
func (f *Form) SetPicture(data []byte) error {
	if limit := f.profile.MaxPictureBytes; limit > 0 && len(data) > limit {
		return &ValidationError{Field: Picture, Message: fmt.Sprintf("Image must not be larger than %d bytes.", limit)}
	}
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return &ValidationError{Field: Picture, Message: fmt.Sprintf("File must be an image, not %s.", mtype.String())}
	}
	f.values[Picture] = "data:" + mtype.String() + ";base64," + base64.StdEncoding.EncodeToString(data)
	return nil
}

// Load fills the form with a stored contact, for editing it.
func (f *Form) Load(contact model.Contact) {
	f.values[FirstName] = contact.FirstName
	f.values[LastName] = contact.LastName
	f.values[CountryCode] = contact.CountryCode
	f.values[ContactNumber] = contact.ContactNumber
	f.values[Dob] = contact.Dob.String()
	f.values[Email] = contact.Email
	f.values[Picture] = contact.Picture
}

// Validate checks the form against the rules of its profile. The first violated rule is
// reported.
func (f *Form) Validate() error {
	if f.profile.validate != nil {
		if err := f.profile.validate(f); err != nil {
			return err
		}
	}
	if _, err := model.ParseDate(f.values[Dob]); err != nil {
		return &ValidationError{Field: Dob, Message: "Date of birth must have the format YYYY-MM-DD."}
	}
	return nil
}

// Fields validates the form and returns the values to send to the service.
func (f *Form) Fields() (model.Fields, error) {
	if err := f.Validate(); err != nil {
		return model.Fields{}, err
	}
	dob, _ := model.ParseDate(f.values[Dob])
	return model.Fields{
		FirstName:     f.values[FirstName],
		LastName:      f.values[LastName],
		CountryCode:   f.values[CountryCode],
		ContactNumber: f.values[ContactNumber],
		Dob:           dob,
		Email:         f.values[Email],
		Picture:       f.values[Picture],
	}, nil
}

func isBlank(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}
