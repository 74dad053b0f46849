package csrf

import (
	"crypto/rand"
	"net/http"
)

// nonceBytes is the amount of entropy drawn per nonce. Rendered as hex this
// yields a 32-character token.
const nonceBytes = 16

const hexUpper = "0123456789ABCDEF"

// Gera um nonce aleatório: 16 bytes como 32 dígitos hex maiúsculos.
func generateNonce() (string, error) {
	raw := make([]byte, nonceBytes)
	if _, err := rand.Read(raw); err != nil {
		// never fall back to a weaker source
		return "", err
	}

	buf := make([]byte, 2*len(raw))
	for i, b := range raw {
		buf[2*i] = hexUpper[b>>4]
		buf[2*i+1] = hexUpper[b&0x0f]
	}
	return string(buf), nil
}

func extractPreviousNonce(r *http.Request, param string) string {
	// Query string vence
	if v := r.URL.Query().Get(param); v != "" {
		return v
	}
	// Depois tenta form (x-www-form-urlencoded / multipart)
	_ = r.ParseForm()
	if v := r.Form.Get(param); v != "" {
		return v
	}
	return ""
}
