package domain

import "strings"

// Account is a row from sy_user. The store owns it; this service only reads
// it, except during registration.
type Account struct {
	AutoKey      int64
	Code         string
	Name         string
	Email        string
	PasswordHash string
	ActiveFlag   string
}

// IsActive reports whether the legacy active flag evaluates true. The
// accounting database stores it as text with several truthy encodings;
// anything else means inactive.
func (a *Account) IsActive() bool {
	switch strings.TrimSpace(a.ActiveFlag) {
	case "1", "Y", "y", "TRUE", "true":
		return true
	}
	return false
}

// Identity is an authenticated user as carried by both the signed credential
// and the server session.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// RegistrationRequest is the input for creating a new sy_user row.
type RegistrationRequest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

func (r *RegistrationRequest) Normalize() {
	r.Code = strings.TrimSpace(r.Code)
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Mobile = strings.TrimSpace(r.Mobile)
}

func (r *RegistrationRequest) Validate() error {
	switch {
	case r.Code == "":
		return Validation("code is required")
	case r.Name == "":
		return Validation("name is required")
	case r.Email == "":
		return Validation("email is required")
	case r.Password == "":
		return Validation("password is required")
	case len(r.Password) < 6:
		return Validation("password must be at least 6 characters")
	}
	return nil
}
