package provisioning

import (
	"regexp"
	"strings"
)

// Token types understood by TokenReplacer.
const (
	TokenListID  = "listid"
	TokenListURL = "listurl"
)

var tokenPattern = regexp.MustCompile(`\{([A-Za-z]+):([^{}]+)\}`)

// TokenReplacer substitutes {type:Value} tokens in field markup using lists seen earlier in the run.
type TokenReplacer struct {
	lists *ListCache
}

// NewTokenReplacer creates a replacer backed by cache.
func NewTokenReplacer(cache *ListCache) *TokenReplacer {
	return &TokenReplacer{lists: cache}
}

// Replace returns s with every resolvable token substituted.
// A token is resolved only when exactly one cached list has the named title;
// unresolved and unknown tokens are kept verbatim.
func (r *TokenReplacer) Replace(s string) string {
	return tokenPattern.ReplaceAllStringFunc(s, func(token string) string {
		m := tokenPattern.FindStringSubmatch(token)
		kind, value := strings.ToLower(m[1]), m[2]

		switch kind {
		case TokenListID, TokenListURL:
			matches := r.lists.FindByTitle(value)
			if len(matches) != 1 {
				return token
			}
			if kind == TokenListID {
				return matches[0].ID
			}
			if matches[0].URL == "" {
				return token
			}
			return matches[0].URL
		default:
			return token
		}
	})
}

// Unresolved lists the tokens in s that Replace would leave untouched.
func (r *TokenReplacer) Unresolved(s string) []string {
	return tokenPattern.FindAllString(r.Replace(s), -1)
}
