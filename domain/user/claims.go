package user

// Claims is the authenticated identity extracted from a verified access
// token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}
