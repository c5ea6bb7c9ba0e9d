package session

// Session represents the session view of one portal browser.
// It carries the identifier the visitor logged in with and the optimistic
// online flag; both only mirror server-held truth and are never authoritative.
// A session is identified by the hash of its cookie token.
type Session struct {
	Token   string
	UserID  string
	Online  bool
	Expires int64
}
