package model

import "encoding/json"

// AdminProfile identifies the single portfolio admin
type AdminProfile struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// UnmarshalJSON accepts "_id" as the identifier and "username" when the
// backend has no email field.
func (a *AdminProfile) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       json.RawMessage `json:"id"`
		MongoID  string          `json:"_id"`
		Email    string          `json:"email"`
		Username string          `json:"username"`
		Name     string          `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	a.ID = rawString(raw.ID)
	if a.ID == "" {
		a.ID = raw.MongoID
	}
	a.Email = raw.Email
	if a.Email == "" {
		a.Email = raw.Username
	}
	a.Name = raw.Name
	return nil
}

// LoginResult is what a successful admin login yields
type LoginResult struct {
	Token string       `json:"token"`
	Admin AdminProfile `json:"admin"`
}

// Credentials is the admin login form
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
