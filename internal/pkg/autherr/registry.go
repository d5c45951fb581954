// internal/pkg/autherr/registry.go
package autherr

import (
	"fmt"
	"net/http"
)

// ErrorResponse is the only shape ever written to the client for a failed
// authentication.
type ErrorResponse struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Handler maps one taxonomy kind to an HTTP status. Handlers for internal
// kinds must not echo error internals, so they suppress details and the
// cause-derived message key.
type Handler struct {
	Declared *Kind
	Status   int
	// Opaque handlers drop details and render a fixed message regardless
	// of the error's own key. Used for internal/service categories.
	Opaque bool
	// FixedKey overrides the error's message key when Opaque.
	FixedKey string
}

// Registry is the exception resolution chain: a decision table from kind to
// handler, built and validated once at startup.
type Registry struct {
	handlers map[*Kind]Handler
	messages *Catalog
}

// NewRegistry validates and indexes the handler set. It fails when two
// handlers declare the same kind, when the taxonomy root is left without a
// handler (a resolution miss would otherwise be possible), or when a
// declared kind is not part of the taxonomy.
func NewRegistry(messages *Catalog, handlers ...Handler) (*Registry, error) {
	known := make(map[*Kind]bool, len(Kinds()))
	for _, k := range Kinds() {
		known[k] = true
	}

	idx := make(map[*Kind]Handler, len(handlers))
	for _, h := range handlers {
		if h.Declared == nil || !known[h.Declared] {
			return nil, fmt.Errorf("handler declares unknown kind")
		}
		if _, dup := idx[h.Declared]; dup {
			return nil, fmt.Errorf("duplicate handler for kind %s", h.Declared.Name())
		}
		idx[h.Declared] = h
	}

	if _, ok := idx[KindAuth]; !ok {
		return nil, fmt.Errorf("no handler registered for the taxonomy root")
	}

	// Ancestor-comparability holds by construction: any two kinds that
	// both claim one error sit on the same parent chain. Assert it anyway
	// so a future taxonomy edit cannot silently break resolution.
	for a := range idx {
		for b := range idx {
			if a == b {
				continue
			}
			for _, k := range Kinds() {
				if k.IsOrDescends(a) && k.IsOrDescends(b) {
					if !a.IsOrDescends(b) && !b.IsOrDescends(a) {
						return nil, fmt.Errorf("ambiguous handlers %s and %s for kind %s",
							a.Name(), b.Name(), k.Name())
					}
				}
			}
		}
	}

	return &Registry{handlers: idx, messages: messages}, nil
}

// DefaultHandlers is the production handler set, one per taxonomy branch.
func DefaultHandlers() []Handler {
	return []Handler{
		{Declared: KindAuth, Status: http.StatusInternalServerError, Opaque: true, FixedKey: "internal.error"},
		{Declared: KindBadRequestInput, Status: http.StatusBadRequest},
		{Declared: KindInvalidCredentials, Status: http.StatusUnauthorized},
		{Declared: KindTokenUntrustworthy, Status: http.StatusUnauthorized},
		{Declared: KindSessionExpired, Status: http.StatusUnauthorized},
		{Declared: KindCodeExpired, Status: http.StatusUnauthorized},
		{Declared: KindForbidden, Status: http.StatusForbidden},
		{Declared: KindInternal, Status: http.StatusInternalServerError, Opaque: true, FixedKey: "internal.error"},
	}
}

// Resolve selects the most specific handler for err and renders the
// localized response. A miss is impossible for a validated registry (every
// kind descends from the handled root); if one happens anyway the registry
// is corrupt and Resolve panics rather than guessing at a response.
func (r *Registry) Resolve(err error, locale string) ErrorResponse {
	ae := Classify(err)

	for k := ae.Kind(); k != nil; k = k.Parent() {
		h, ok := r.handlers[k]
		if !ok {
			continue
		}

		key := ae.MessageKey()
		details := ae.Details()
		if h.Opaque {
			key = h.FixedKey
			details = nil
		}

		return ErrorResponse{
			Status:  h.Status,
			Message: r.messages.Lookup(locale, key),
			Details: details,
		}
	}

	panic(fmt.Sprintf("autherr: no handler for kind %s", ae.Kind().Name()))
}
