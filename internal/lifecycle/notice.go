package lifecycle

// Scope identifies the portal message region a notice belongs to
type Scope string

const (
	ScopeLogin  Scope = "login"
	ScopeAccess Scope = "access"
)

// Kind classifies a notice for display purposes
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindError   Kind = "error"
)

// Notice represents a user-facing message produced by a lifecycle transition
type Notice struct {
	Scope Scope
	Kind  Kind
	Text  string
}

func notice(scope Scope, kind Kind, text string) Notice {
	return Notice{
		Scope: scope,
		Kind:  kind,
		Text:  text,
	}
}
