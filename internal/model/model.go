package model

// Fields are the mutable properties of a contact. Create and update requests carry exactly
// these values, and an update always overwrites all of them.
type Fields struct {
	FirstName     string `json:"firstName"     db:"firstname"`
	LastName      string `json:"lastName"      db:"lastname"`
	CountryCode   string `json:"countryCode"   db:"countrycode"`
	ContactNumber string `json:"contactNumber" db:"contactnumber"`
	Dob           Date   `json:"dob"           db:"dob"`
	Email         string `json:"email"         db:"email"`
	Picture       string `json:"picture"       db:"picture"`
}

// Contact is the data structure for a person that we know. The Id is assigned by the database
// and never changes.
type Contact struct {
	Id int64 `json:"id" db:"id"`
	Fields
	Status Status `json:"deleted" db:"deleted"`
}

// CreatedResponse is the body returned after a contact has been created.
type CreatedResponse struct {
	Id int64 `json:"id"`
}
