package domain

// Viewer is the authenticated user as reported by the session bootstrap
// query.
type Viewer struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IsAdmin     bool   `json:"isAdmin"`
}
