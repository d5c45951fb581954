// internal/domain/auth/payload.go
package auth

// Role is one of the two static roles the platform knows about.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Kind tags a payload variant. Codecs and providers declare which kinds
// they support and are selected at runtime by kind.
type Kind int

const (
	KindLogin Kind = iota
	KindUserSession
	KindPhoneVerification
	KindAuthNumber
	KindAnonymousSession
)

func (k Kind) String() string {
	switch k {
	case KindLogin:
		return "login"
	case KindUserSession:
		return "user_session"
	case KindPhoneVerification:
		return "phone_verification"
	case KindAuthNumber:
		return "auth_number"
	case KindAnonymousSession:
		return "anonymous_session"
	default:
		return "unknown"
	}
}

// Payload is the tagged union carried between filters, providers and codecs.
// Each flow populates only the variant it needs; callers switch on the
// concrete type or on Kind().
type Payload interface {
	Kind() Kind
}

// Account is the minimal identity projection embedded in a session token.
// It never carries credentials.
type Account struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}

// Credential is the stored login material for an account. The hash never
// leaves the provider layer.
type Credential struct {
	Account      Account
	PasswordHash string
}

// SessionComponent is the mutable, externally stored half of a session.
// SessionID is regenerated on every login and on every refresh past the
// renewal threshold; at most one live SessionID exists per account.
type SessionComponent struct {
	AccountID int64  `json:"account_id"`
	SessionID string `json:"session_id"`
}

// LoginCredentials is input only; it is never serialized into a token.
type LoginCredentials struct {
	Username string
	Password string
}

func (LoginCredentials) Kind() Kind { return KindLogin }

// UserSession is the payload built into and parsed from the primary
// session token. Account.ID and Session.AccountID must match.
type UserSession struct {
	Account Account
	Session SessionComponent
	// IssuedAt is the unix issue time of the token this payload was
	// parsed from; zero for freshly built sessions.
	IssuedAt int64
}

func (UserSession) Kind() Kind { return KindUserSession }

// Consistent reports whether both halves reference the same account.
func (s UserSession) Consistent() bool {
	return s.Account.ID == s.Session.AccountID
}

// PhoneVerification carries data between the phone-match provider and the
// code issuance flow. Never serialized.
type PhoneVerification struct {
	Username    string
	Destination string
	Locale      string
}

func (PhoneVerification) Kind() Kind { return KindPhoneVerification }

// AuthNumber is the short-lived one-time-code payload. ClientIP is a light
// anti-replay signal checked again at parse time.
type AuthNumber struct {
	ClientIP string
	Code     string
	Email    string
	Token    string
}

func (AuthNumber) Kind() Kind { return KindAuthNumber }

// AnonymousSession proves "code verified but not logged in" between code
// verification and temporary password issuance.
type AnonymousSession struct {
	ClientIP string
	Email    string
	Token    string
}

func (AnonymousSession) Kind() Kind { return KindAnonymousSession }
