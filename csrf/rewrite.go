package csrf

import "strings"

// URLEncoder rewrites application URLs so they carry the nonce issued for
// the current request. EncodeURL covers general link rewriting and
// EncodeRedirectURL covers redirect targets; both apply the same rewrite
// and exist as a pair to mirror the two encoding entry points a response
// exposes.
type URLEncoder interface {
	EncodeURL(url string) string
	EncodeRedirectURL(url string) string
}

// nonceEncoder is bound to the single nonce issued for one request.
type nonceEncoder struct {
	param string
	nonce string
}

func (e *nonceEncoder) EncodeURL(url string) string {
	return addNonce(url, e.param, e.nonce)
}

func (e *nonceEncoder) EncodeRedirectURL(url string) string {
	return addNonce(url, e.param, e.nonce)
}

// addNonce returns url with param=nonce appended to its query string,
// preserving an existing query and keeping the fragment ahead of it.
//
// The split is: find '?' first and cut off the query; inside the pre-query
// part, find '#' and cut off the anchor. Reassembly is
// path + anchor + query + "&..." (or path + anchor + "?..." when there was
// no query).
//
// An empty url or nonce is a no-op, never an error.
func addNonce(url, param, nonce string) string {
	if url == "" || nonce == "" {
		return url
	}

	path := url
	query := ""
	anchor := ""

	if i := strings.IndexByte(path, '?'); i >= 0 {
		query = path[i:]
		path = path[:i]
	}
	if i := strings.IndexByte(path, '#'); i >= 0 {
		anchor = path[i:]
		path = path[:i]
	}

	var sb strings.Builder
	sb.WriteString(path)
	sb.WriteString(anchor)
	if query != "" {
		sb.WriteString(query)
		sb.WriteByte('&')
	} else {
		sb.WriteByte('?')
	}
	sb.WriteString(param)
	sb.WriteByte('=')
	sb.WriteString(nonce)
	return sb.String()
}
