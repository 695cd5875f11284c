package tracker

// Session is the persisted login identity. There is exactly one local user
// at a time; the username is free-form and the password is a shared secret.
type Session struct {
	Username   string `json:"username"`
	IsLoggedIn bool   `json:"isLoggedIn"`
}
