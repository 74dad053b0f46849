package csrf

import "net/http"

// responseWriter decorates the response so redirects issued downstream keep
// the client inside the nonce loop: when a 3xx status is written with a
// Location header, the target is rewritten through the encoder. Everything
// else delegates to the wrapped writer untouched.
type responseWriter struct {
	http.ResponseWriter
	enc         *nonceEncoder
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		if status >= 300 && status < 400 {
			if loc := w.Header().Get("Location"); loc != "" {
				w.Header().Set("Location", w.enc.EncodeRedirectURL(loc))
			}
		}
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
