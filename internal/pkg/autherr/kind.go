// internal/pkg/autherr/kind.go
package autherr

// Kind identifies a node in the error taxonomy. Kinds form a tree via
// parent pointers; handler resolution walks the chain from the most
// specific kind upward, so the nearest registered handler always wins.
type Kind struct {
	name   string
	parent *Kind
}

func (k *Kind) Name() string  { return k.name }
func (k *Kind) Parent() *Kind { return k.parent }

// IsOrDescends reports whether ancestor is an ancestor of, or equal to, k,
// i.e. whether a handler declared for ancestor also claims errors of kind k.
func (k *Kind) IsOrDescends(ancestor *Kind) bool {
	for n := k; n != nil; n = n.parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

// The taxonomy. KindAuth is the root; every other kind descends from it so
// a root handler is always a last resort and resolution can never be
// ambiguous: two kinds matching the same error are always on one chain.
var (
	KindAuth = &Kind{name: "auth"}

	KindBadRequestInput    = &Kind{name: "bad_request_input", parent: KindAuth}
	KindInvalidCredentials = &Kind{name: "invalid_credentials", parent: KindAuth}
	KindForbidden          = &Kind{name: "forbidden", parent: KindAuth}
	KindInternal           = &Kind{name: "internal", parent: KindAuth}

	KindTokenUntrustworthy = &Kind{name: "token_untrustworthy", parent: KindAuth}
	KindSessionExpired     = &Kind{name: "session_expired_or_replayed", parent: KindTokenUntrustworthy}
	KindCodeExpired        = &Kind{name: "code_expired", parent: KindSessionExpired}
)

// Kinds lists every node of the taxonomy, root first.
func Kinds() []*Kind {
	return []*Kind{
		KindAuth,
		KindBadRequestInput,
		KindInvalidCredentials,
		KindForbidden,
		KindInternal,
		KindTokenUntrustworthy,
		KindSessionExpired,
		KindCodeExpired,
	}
}
