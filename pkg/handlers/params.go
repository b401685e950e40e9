package handlers

import (
	"net/http"
	"strconv"
	"strings"

	libinjection "github.com/corazawaf/libinjection-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ParseReportID extracts and validates the report ID from the request path.
// Returns the ID and true on success, or "" and false after writing an error
// response.
// Expects path parameter: id
func ParseReportID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_report_id", "Invalid report ID format", logger)
		return "", false
	}
	return id.String(), true
}

// parsePathID returns a non-empty path parameter. Data source and schedule IDs
// are opaque strings because stores written by older versions used other
// shapes.
func parsePathID(w http.ResponseWriter, r *http.Request, name, errorCode string, logger *zap.Logger) (string, bool) {
	id := strings.TrimSpace(r.PathValue(name))
	if id == "" {
		writeError(w, http.StatusBadRequest, errorCode, "Missing ID", logger)
		return "", false
	}
	return id, true
}

// queryBool reports whether a query flag is set to a true value.
func queryBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

// queryInt parses an optional positive integer query parameter.
// Returns def when absent and ok=false when the value is malformed.
func queryInt(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// InjectionCheckResult describes a query parameter that looks like SQL
// injection.
type InjectionCheckResult struct {
	ParamName   string
	Fingerprint string
}

// CheckParameterForInjection runs libinjection over a free-text parameter.
// Returns nil when the value is clean.
func CheckParameterForInjection(paramName, value string) *InjectionCheckResult {
	if value == "" {
		return nil
	}
	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if !isSQLi {
		return nil
	}
	return &InjectionCheckResult{ParamName: paramName, Fingerprint: string(fingerprint)}
}
