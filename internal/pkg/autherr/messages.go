// internal/pkg/autherr/messages.go
package autherr

import "strings"

// Catalog holds the per-locale message templates keyed by message key.
type Catalog struct {
	fallback string
	locales  map[string]map[string]string
}

// DefaultCatalog returns the built-in en/ko catalogs with English fallback.
func DefaultCatalog() *Catalog {
	return &Catalog{
		fallback: "en",
		locales: map[string]map[string]string{
			"en": {
				"internal.error":          "an internal error occurred, please try again later",
				"request.invalid":         "the request is missing or has malformed fields",
				"login.invalid":           "invalid username or password",
				"destination.invalid":     "the destination does not match our records",
				"destination.format":      "the destination could not be parsed",
				"locale.unsupported":      "the requested locale is not supported",
				"token.untrustworthy":     "the token could not be verified",
				"token.claim_mismatch":    "the token does not match this request",
				"session.expired":         "your session has expired, please log in again",
				"session.replayed":        "your session is no longer valid, please log in again",
				"code.expired":            "the time limit for this code has expired, please request a new one",
				"code.invalid":            "the code could not be verified",
				"forbidden.role":          "you do not have permission to perform this action",
				"authorization.missing":   "the authorization header is missing or malformed",
				"authorization.malformed": "the authorization header is missing or malformed",
			},
			"ko": {
				"internal.error":          "내부 오류가 발생했습니다. 잠시 후 다시 시도해 주세요",
				"request.invalid":         "요청에 누락되었거나 잘못된 항목이 있습니다",
				"login.invalid":           "아이디 또는 비밀번호가 올바르지 않습니다",
				"destination.invalid":     "등록된 연락처와 일치하지 않습니다",
				"destination.format":      "연락처 형식이 올바르지 않습니다",
				"locale.unsupported":      "지원하지 않는 로케일입니다",
				"token.untrustworthy":     "토큰을 확인할 수 없습니다",
				"token.claim_mismatch":    "토큰이 이 요청과 일치하지 않습니다",
				"session.expired":         "세션이 만료되었습니다. 다시 로그인해 주세요",
				"session.replayed":        "세션이 더 이상 유효하지 않습니다. 다시 로그인해 주세요",
				"code.expired":            "인증번호 유효 시간이 만료되었습니다. 다시 요청해 주세요",
				"code.invalid":            "인증번호를 확인할 수 없습니다",
				"forbidden.role":          "이 작업을 수행할 권한이 없습니다",
				"authorization.missing":   "인증 헤더가 없거나 잘못되었습니다",
				"authorization.malformed": "인증 헤더가 없거나 잘못되었습니다",
			},
		},
	}
}

// Lookup resolves key in the requested locale, falling back to the default
// locale and finally to the key itself so a missing template never hides
// the failure class.
func (c *Catalog) Lookup(locale, key string) string {
	locale = NormalizeLocale(locale)

	if msgs, ok := c.locales[locale]; ok {
		if m, ok := msgs[key]; ok {
			return m
		}
	}
	if msgs, ok := c.locales[c.fallback]; ok {
		if m, ok := msgs[key]; ok {
			return m
		}
	}
	return key
}

// NormalizeLocale reduces an Accept-Language style value to a bare language
// tag ("ko-KR,ko;q=0.9" -> "ko").
func NormalizeLocale(locale string) string {
	if i := strings.IndexAny(locale, ",;"); i >= 0 {
		locale = locale[:i]
	}
	if i := strings.Index(locale, "-"); i >= 0 {
		locale = locale[:i]
	}
	return strings.ToLower(strings.TrimSpace(locale))
}
