package poster

import (
	"net/http"
	"strings"
)

// Auth attaches the provider credential to an outgoing request. The two
// implementations are BearerAuth and QueryParamAuth.
type Auth interface {
	apply(req *http.Request)
	Scheme() string
}

// BearerAuth sends a v4 read access token in the Authorization header.
type BearerAuth struct{ Token string }

func (a BearerAuth) apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+a.Token)
}

func (BearerAuth) Scheme() string { return "bearer" }

// QueryParamAuth sends a v3 key as the api_key query parameter.
type QueryParamAuth struct{ Key string }

func (a QueryParamAuth) apply(req *http.Request) {
	q := req.URL.Query()
	q.Set("api_key", a.Key)
	req.URL.RawQuery = q.Encode()
}

func (QueryParamAuth) Scheme() string { return "query" }

// SelectAuth picks the scheme from the shape of the credential. A value with
// a JWT prefix and three dot-separated segments selects bearer auth; anything
// else is treated as a v3 key.
// An empty credential returns nil.
func SelectAuth(credential string) Auth {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil
	}
	if looksLikeJWT(credential) {
		return BearerAuth{Token: credential}
	}
	return QueryParamAuth{Key: credential}
}

// looksLikeJWT only inspects structure; the provider verifies the token.
func looksLikeJWT(s string) bool {
	if !strings.HasPrefix(s, "eyJ") {
		return false
	}
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts[:2] {
		if p == "" {
			return false
		}
	}
	return true
}
