package transport

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"

	"github.com/richard-senior/arcmcp/internal/logger"
	"github.com/richard-senior/arcmcp/pkg/protocol"
)

// maxRequestBytes caps a decoded request body
const maxRequestBytes = 1 << 20

// HTTPOptions configures NewHTTPHandler
type HTTPOptions struct {
	// Compress responses with brotli or gzip when the client accepts them
	Compression bool
}

// NewHTTPHandler serves JSON-RPC requests posted to /mcp and a liveness
// check on /healthz
func NewHTTPHandler(handle RequestHandler, opts HTTPOptions) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	mux.HandleFunc("POST /mcp", func(w http.ResponseWriter, r *http.Request) {
		serveRPC(w, r, handle, opts)
	})
	return mux
}

func serveRPC(w http.ResponseWriter, r *http.Request, handle RequestHandler, opts HTTPOptions) {
	body, err := decodedBody(r)
	if err != nil {
		logger.Warn("Failed to decode request body:", err)
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxRequestBytes+1))
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, ParseErrorResponse(err), opts)
		return
	}
	if len(data) > maxRequestBytes {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	req, err := protocol.ParseJsonRpcRequest(data)
	if err != nil {
		logger.Warn("Failed to parse JSON-RPC request:", err)
		writeJSON(w, r, http.StatusBadRequest, ParseErrorResponse(err), opts)
		return
	}

	resp := handle(req)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeJSON(w, r, http.StatusOK, resp, opts)
}

// decodedBody undoes the request's Content-Encoding
func decodedBody(r *http.Request) (io.ReadCloser, error) {
	return NewDecodingReader(r.Body, r.Header.Get("Content-Encoding"))
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any, opts HTTPOptions) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("Failed to marshal response:", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Add("Vary", "Accept-Encoding")

	encoding := ""
	if opts.Compression {
		encoding = negotiateEncoding(r.Header.Get("Accept-Encoding"))
	}

	var out io.WriteCloser
	switch encoding {
	case "br":
		out = brotli.NewWriter(w)
	case "gzip":
		out = gzip.NewWriter(w)
	}
	if out == nil {
		w.WriteHeader(status)
		_, _ = w.Write(data)
		return
	}

	w.Header().Set("Content-Encoding", encoding)
	w.WriteHeader(status)
	if _, err := out.Write(data); err != nil {
		logger.Error("Failed to write compressed response:", err)
	}
	if err := out.Close(); err != nil {
		logger.Error("Failed to finish compressed response:", err)
	}
}

// negotiateEncoding picks brotli over gzip from an Accept-Encoding header.
// Codings listed with q=0 are refused.
func negotiateEncoding(header string) string {
	accepted := map[string]bool{}
	for _, part := range strings.Split(header, ",") {
		fields := strings.Split(part, ";")
		name := strings.ToLower(strings.TrimSpace(fields[0]))
		if name == "" {
			continue
		}
		refused := false
		for _, param := range fields[1:] {
			p := strings.ReplaceAll(strings.TrimSpace(param), " ", "")
			if p == "q=0" || p == "q=0.0" || p == "q=0.00" || p == "q=0.000" {
				refused = true
			}
		}
		accepted[name] = !refused
	}
	switch {
	case accepted["br"]:
		return "br"
	case accepted["gzip"]:
		return "gzip"
	default:
		return ""
	}
}
