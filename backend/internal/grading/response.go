package grading

import (
	"encoding/json"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ProviderResult is the exact JSON shape the grading prompt demands from the
// provider.
type ProviderResult struct {
	Score               *int32 `json:"score"`
	Feedback            string `json:"feedback"`
	Strengths           string `json:"strengths"`
	AreasForImprovement string `json:"areasForImprovement"`
}

// parseProviderResult decodes a provider response under the strict contract:
// the entire response must be exactly one JSON object of the expected shape.
// Markdown fencing, surrounding prose, unknown fields or a missing score all
// reject the response; there is no best-effort extraction, because salvaging
// JSON out of prose would silently accept non-conforming providers.
func parseProviderResult(raw string) (*ProviderResult, error) {
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(raw)))
	dec.DisallowUnknownFields()

	var result ProviderResult
	if err := dec.Decode(&result); err != nil {
		return nil, status.Error(codes.Unavailable, "AI provider returned a malformed grading response")
	}
	// Anything after the object (prose, a second value) breaks the contract.
	if dec.More() {
		return nil, status.Error(codes.Unavailable, "AI provider returned a malformed grading response")
	}
	if result.Score == nil {
		return nil, status.Error(codes.Unavailable, "AI provider response is missing a score")
	}

	return &result, nil
}

// composeFeedback flattens the structured provider result into the single
// feedback block persisted on the submission.
func composeFeedback(result *ProviderResult) string {
	var sb strings.Builder
	sb.WriteString(result.Feedback)
	if result.Strengths != "" {
		sb.WriteString("\n\nStrengths: ")
		sb.WriteString(result.Strengths)
	}
	if result.AreasForImprovement != "" {
		sb.WriteString("\n\nAreas for improvement: ")
		sb.WriteString(result.AreasForImprovement)
	}
	return sb.String()
}
