package http

import (
	"encoding/json"
	"net/http"

	"partforge/pkg/generator"
)

// errorResponse is the error form of the output contract: a machine-checkable
// kind and a human-readable detail, never a stack trace.
type errorResponse struct {
	Status     string   `json:"status"`
	Kind       string   `json:"kind"`
	Detail     string   `json:"detail"`
	Violations []string `json:"violations,omitempty"`
}

// statusFromKind maps the failure taxonomy onto HTTP status codes. Caller
// errors are 4xx, a host missing an engine's prerequisite is 503, and
// everything the caller cannot fix is 500.
func statusFromKind(kind generator.FailureKind) int {
	switch kind {
	case generator.ValidationFailed, generator.UnsupportedEngine:
		return http.StatusBadRequest
	case generator.MissingCapability:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeGenerationError renders a typed generation failure.
func writeGenerationError(w http.ResponseWriter, ge *generator.Error) {
	var violations []string
	for _, v := range ge.Violations {
		violations = append(violations, v.Message)
	}
	detail := ge.Message
	if ge.Kind == generator.InternalFault {
		detail = "internal error"
	}
	writeError(w, statusFromKind(ge.Kind), string(ge.Kind), detail, violations)
}

func writeError(w http.ResponseWriter, status int, kind, detail string, violations []string) {
	writeJSON(w, status, errorResponse{
		Status:     "error",
		Kind:       kind,
		Detail:     detail,
		Violations: violations,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
