package models

// ValidationStatus is the overall result of a connection test.
type ValidationStatus string

const (
	ValidationSuccess ValidationStatus = "success"
	ValidationFailed  ValidationStatus = "failed"
)

// Check is one named step of a connection test.
type Check struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// ValidationResult is the outcome of validating a provider configuration.
type ValidationResult struct {
	Status   ValidationStatus `json:"status"`
	Provider string           `json:"provider"`
	Checks   []Check          `json:"checks"`
}

// Passed reports whether every check succeeded.
func (r *ValidationResult) Passed() bool {
	return r.Status == ValidationSuccess
}

// NewValidationResult starts a passing result for provider.
func NewValidationResult(provider string) *ValidationResult {
	return &ValidationResult{Status: ValidationSuccess, Provider: provider, Checks: []Check{}}
}

// Add appends a check. Any failing check marks the whole result failed.
func (r *ValidationResult) Add(c Check) {
	r.Checks = append(r.Checks, c)
	if !c.OK {
		r.Status = ValidationFailed
	}
}
