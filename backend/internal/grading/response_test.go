package grading

import (
	"strings"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestParseProviderResult(t *testing.T) {
	valid := `{"score": 85, "feedback": "Solid work.", "strengths": "Clear structure.", "areasForImprovement": "Add error handling."}`

	t.Run("Valid", func(t *testing.T) {
		result, err := parseProviderResult(valid)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if *result.Score != 85 {
			t.Errorf("expected score 85, got %d", *result.Score)
		}
		if result.Feedback != "Solid work." {
			t.Errorf("unexpected feedback: %q", result.Feedback)
		}
	})

	t.Run("SurroundingWhitespace", func(t *testing.T) {
		if _, err := parseProviderResult("\n  " + valid + "  \n"); err != nil {
			t.Fatalf("whitespace-padded response should parse: %v", err)
		}
	})

	rejects := []struct {
		name string
		raw  string
	}{
		{"MarkdownFence", "```json\n" + valid + "\n```"},
		{"LeadingProse", "Here is the grade:\n" + valid},
		{"TrailingProse", valid + "\nLet me know if you need anything else!"},
		{"SecondValue", valid + " " + valid},
		{"UnknownField", `{"score": 85, "feedback": "ok", "strengths": "", "areasForImprovement": "", "confidence": 0.9}`},
		{"MissingScore", `{"feedback": "ok", "strengths": "", "areasForImprovement": ""}`},
		{"NotJSON", "The student deserves an 85."},
		{"Empty", ""},
	}

	for _, tc := range rejects {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseProviderResult(tc.raw)
			if status.Code(err) != codes.Unavailable {
				t.Errorf("expected Unavailable for %q, got %v", tc.raw, err)
			}
		})
	}
}

func TestComposeFeedback(t *testing.T) {
	score := int32(85)

	t.Run("AllSections", func(t *testing.T) {
		got := composeFeedback(&ProviderResult{
			Score:               &score,
			Feedback:            "Solid work.",
			Strengths:           "Clear structure.",
			AreasForImprovement: "Add error handling.",
		})
		if !strings.HasPrefix(got, "Solid work.") {
			t.Errorf("feedback should lead: %q", got)
		}
		if !strings.Contains(got, "Strengths: Clear structure.") {
			t.Errorf("strengths missing: %q", got)
		}
		if !strings.Contains(got, "Areas for improvement: Add error handling.") {
			t.Errorf("improvements missing: %q", got)
		}
	})

	t.Run("FeedbackOnly", func(t *testing.T) {
		got := composeFeedback(&ProviderResult{Score: &score, Feedback: "Fine."})
		if got != "Fine." {
			t.Errorf("empty sections should not emit headers: %q", got)
		}
	})
}
