package api

import (
	"encoding/json"
	"net/http"
)

// Every non-2xx reply is an RFC 7807 problem body. Optimizer failures carry
// a stable type URN so dashboard clients can branch on the failure class
// instead of matching title strings; plain resource errors stay
// "about:blank".
const (
	problemInvalidInput  = "urn:wastewatch:problem:invalid-input"
	problemSolverFailure = "urn:wastewatch:problem:solver-failure"
	problemOptimizerBusy = "urn:wastewatch:problem:optimizer-busy"
)

// Problem is the RFC 7807 problem-details body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem emits an untyped problem for resource-level errors (missing
// bins, store failures, auth).
func writeProblem(w http.ResponseWriter, status int, title, detail, instance string) {
	writeTypedProblem(w, status, "about:blank", title, detail, instance)
}

// writeTypedProblem emits a problem with one of the urn:wastewatch types.
func writeTypedProblem(w http.ResponseWriter, status int, kind, title, detail, instance string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Problem{
		Type:     kind,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	})
}
