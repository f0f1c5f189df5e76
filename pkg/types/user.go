package types

import "fmt"

// User field tags for Record.Update.
const (
	UserFieldFirstName     = "firstName"
	UserFieldLastName      = "lastName"
	UserFieldBirthday      = "birthday"
	UserFieldAdministrator = "administrator"
	UserFieldUsername      = "username"
	UserFieldPassword      = "password"
)

// DefaultAdministrator is the username and password of the user synthesized
// when the user collection loads empty.
const DefaultAdministrator = "administrator"

// User is an account that can log in. The password is stored as plain text
// because the on-disk format carries it verbatim.
type User struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Birthday      Date   `json:"birthday"`
	ID            ID     `json:"id"`
	Administrator bool   `json:"administrator"`
	Username      string `json:"username"`
	Password      string `json:"-"`
}

// NewUser builds a user. Blank strings become NullString.
func NewUser(first, last string, birthday Date, id ID, administrator bool, username, password string) *User {
	return &User{
		FirstName:     validString(first),
		LastName:      validString(last),
		Birthday:      orToday(birthday),
		ID:            id,
		Administrator: administrator,
		Username:      validString(username),
		Password:      validString(password),
	}
}

// NewDefaultAdministrator returns the bootstrap administrator.
func NewDefaultAdministrator() *User {
	return NewUser("Administrator", "Administrator", Today(), ID(KindUser), true,
		DefaultAdministrator, DefaultAdministrator)
}

// RecordID implements Record.
func (u *User) RecordID() ID { return u.ID }

// Header implements Record.
func (u *User) Header() []string {
	return []string{"First Name", "Last Name", "Birthday", "Username", "ID"}
}

// Row implements Record.
func (u *User) Row() []string {
	return []string{u.FirstName, u.LastName, u.Birthday.String(), u.Username, u.ID.String()}
}

// Update implements Record.
func (u *User) Update(field string, value any) error {
	switch field {
	case UserFieldFirstName, UserFieldLastName, UserFieldUsername, UserFieldPassword:
		s, ok := value.(string)
		if !ok {
			return mismatch(field, "string", value)
		}
		s = validString(s)
		switch field {
		case UserFieldFirstName:
			u.FirstName = s
		case UserFieldLastName:
			u.LastName = s
		case UserFieldUsername:
			u.Username = s
		default:
			u.Password = s
		}
	case UserFieldBirthday:
		d, err := setDate(field, value)
		if err != nil {
			return err
		}
		u.Birthday = d
	case UserFieldAdministrator:
		b, ok := value.(bool)
		if !ok {
			return mismatch(field, "bool", value)
		}
		u.Administrator = b
	case FieldID:
		id, err := checkOwnKind(KindUser, value)
		if err != nil {
			return err
		}
		u.ID = id
	default:
		return fmt.Errorf("%w: user has no field %q", ErrUnknownField, field)
	}
	return nil
}

// Clone implements Record.
func (u *User) Clone() Record {
	cp := *u
	return &cp
}
