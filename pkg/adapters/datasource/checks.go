package datasource

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/apperrors"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// Pass returns a passing check.
func Pass(name string) models.Check {
	return models.Check{Name: name, OK: true}
}

// Present passes when value is non-blank. failMsg is attached only on failure.
func Present(name, value, failMsg string) models.Check {
	if strings.TrimSpace(value) != "" {
		return Pass(name)
	}
	return models.Check{Name: name, Message: failMsg}
}

// Matches passes when re matches value.
func Matches(name string, re *regexp.Regexp, value, failMsg string) models.Check {
	if re.MatchString(value) {
		return Pass(name)
	}
	return models.Check{Name: name, Message: failMsg}
}

// Port returns the numeric port stored under "port", or defaultPort when the
// key is blank. ok is false when the value is not a number.
func Port(cfg models.ConnectionConfig, defaultPort int) (port int, ok bool) {
	raw := strings.TrimSpace(cfg.Get("port"))
	if raw == "" {
		return defaultPort, true
	}
	if p, err := strconv.Atoi(raw); err == nil {
		return p, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

// SQLChecks returns the shared static checks of relational providers.
func SQLChecks(cfg models.ConnectionConfig, defaultPort int) []models.Check {
	_, portOK := Port(cfg, defaultPort)
	portCheck := Pass("Port numeric")
	if !portOK {
		portCheck = models.Check{Name: "Port numeric", Message: "Port must be a number"}
	}
	return []models.Check{
		Present("Host present", cfg.Get("host"), ""),
		portCheck,
		Present("Database present", cfg.Get("database"), ""),
		Present("User present", cfg.Get("user"), ""),
		Present("Password present", cfg.Get("password"), ""),
	}
}

// OAuthChecks returns the presence checks of a Google OAuth refresh-token triple.
func OAuthChecks(cfg models.ConnectionConfig) []models.Check {
	return []models.Check{
		Present("OAuth Client ID", cfg.Get("clientId"), ""),
		Present("OAuth Client Secret", cfg.Get("clientSecret"), ""),
		Present("Refresh Token", cfg.Get("refreshToken"), ""),
	}
}

var errBlobEmpty = errors.New("empty credentials")

// DecodeJSONBlob parses a JSON object supplied either inline or base64 encoded.
func DecodeJSONBlob(raw string) ([]byte, map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil, errBlobEmpty
	}

	data := []byte(raw)
	if !strings.HasPrefix(raw, "{") {
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(raw, "="))
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: credentials are neither JSON nor base64", apperrors.ErrInvalidInput)
		}
		data = decoded
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, nil, fmt.Errorf("%w: credentials are not a JSON object", apperrors.ErrInvalidInput)
	}
	return data, obj, nil
}

// ProbeFailed builds a failing probe check from err.
func ProbeFailed(name string, err error) models.Check {
	return models.Check{Name: name, Message: err.Error()}
}
