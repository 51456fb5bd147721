package session

// User is the user sub-object exposed on a session.
type User struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

// Session represents a logged-in user, including the backend-issued token pair.
// It is created at sign-in, carried in a signed cookie and handed back to the
// browser on every session read.
type Session struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	User         User   `json:"user"`
}
