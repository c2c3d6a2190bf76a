package entity

import "time"

type User struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name" validate:"required"`
	Email               string     `json:"email" validate:"required,mailaddr"`
	Role                Role       `json:"role" validate:"required,enum"`
	Password            string     `json:"password" validate:"required,min=6"`
	ResetPasswordToken  string     `json:"resetPasswordToken,omitempty"`
	ResetPasswordExpire *time.Time `json:"resetPasswordExpire,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`

	// plain is the password set through SetPassword and not yet hashed.
	plain string
}

func (*User) EntityType() string { return "User" }

func (u User) DocID() string { return u.ID }

func (u User) UniqueFields() map[string]string {
	return map[string]string{"email": u.Email}
}

// SetPassword marks plain as the new password. It is hashed on the next save.
func (u *User) SetPassword(plain string) {
	u.plain = plain
	u.Password = plain
}

// PendingPassword returns the plain password awaiting hashing, if any.
func (u *User) PendingPassword() (string, bool) {
	return u.plain, u.plain != ""
}

// PasswordHashed replaces the pending password with its hash.
func (u *User) PasswordHashed(hash string) {
	u.Password = hash
	u.plain = ""
}

func (User) ValidationMessages() map[string]string {
	return map[string]string{
		"Name":           "Add a name!",
		"Email.required": "Please add an email",
		"Email":          "Please add a valid email",
		"Role":           "Role must be user or publisher",
		"Password":       "Please add a password",
		"Password.min":   "Password must be at least 6 characters",
	}
}
