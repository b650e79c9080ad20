package app

import (
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"gitlab.com/dirk.krummacker/contact-manager/internal/model"
)

// SortKey selects the order in which the active contacts are shown.
type SortKey string

const (
	SortByFirstName SortKey = "firstName"
	SortByLastName  SortKey = "lastName"
	SortByDob       SortKey = "dob"
)

// ParseSortKey accepts the three sort keys by name.
func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(s); key {
	case SortByFirstName, SortByLastName, SortByDob:
		return key, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

// Sort returns a sorted copy of the contacts. Names are compared the way a human reader
// expects rather than by byte value. Contacts without a date of birth come last when sorting
// by date. The sort is stable.
func Sort(contacts []model.Contact, key SortKey) []model.Contact {
	sorted := slices.Clone(contacts)
	switch key {
	case SortByDob:
		slices.SortStableFunc(sorted, func(a, b model.Contact) int {
			switch {
			case a.Dob.Before(b.Dob):
				return -1
			case b.Dob.Before(a.Dob):
				return 1
			default:
				return 0
			}
		})
	case SortByLastName:
		c := collate.New(language.Und)
		slices.SortStableFunc(sorted, func(a, b model.Contact) int {
			return c.CompareString(a.LastName, b.LastName)
		})
	default:
		c := collate.New(language.Und)
		slices.SortStableFunc(sorted, func(a, b model.Contact) int {
			return c.CompareString(a.FirstName, b.FirstName)
		})
	}
	return sorted
}
