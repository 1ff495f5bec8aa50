package tests

import (
	"context"
	"net/http"
	"testing"
	"time"

	"neurocampus/backend/internal/shared"
)

// seedUsers inserts the fixed accounts the workflow tests act as.
func seedUsers(t *testing.T, env *TestEnv) {
	t.Helper()

	now := time.Now()
	users := []interface{}{
		shared.User{ID: "teacher-001", Email: "teacher@example.com", Name: "Grace Hopper", Role: shared.RoleTeacher, CreatedAt: now},
		shared.User{ID: "teacher-002", Email: "teacher2@example.com", Name: "Alan Kay", Role: shared.RoleTeacher, CreatedAt: now},
		shared.User{ID: "student-001", Email: "student@example.com", Name: "John Student", Role: shared.RoleStudent, CreatedAt: now},
	}

	if _, err := env.DB.Collection("users").InsertMany(context.Background(), users); err != nil {
		t.Fatalf("Failed to seed users: %v", err)
	}
}

func dataField(t *testing.T, body map[string]interface{}, key string) string {
	t.Helper()

	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data object: %v", body)
	}
	value, ok := data[key].(string)
	if !ok {
		t.Fatalf("data.%s missing or not a string: %v", key, data)
	}
	return value
}

// TestSubmissionGradingWorkflow drives the full lifecycle end to end:
// course creation, enrollment, submission, authorization checks, manual
// grading and AI-delegated grading.
func TestSubmissionGradingWorkflow(t *testing.T) {
	env := setupGatewayTestEnv(t)
	seedUsers(t, env)

	teacherTok := tokenFor(t, "teacher-001", "Grace Hopper", "teacher@example.com", shared.RoleTeacher)
	otherTeacherTok := tokenFor(t, "teacher-002", "Alan Kay", "teacher2@example.com", shared.RoleTeacher)
	studentTok := tokenFor(t, "student-001", "John Student", "student@example.com", shared.RoleStudent)

	var courseID, assignmentID, submissionID string

	t.Run("TeacherCreatesCourse", func(t *testing.T) {
		code, body := doJSON(t, env, http.MethodPost, "/api/courses", teacherTok, map[string]string{
			"title":       "Systems Programming in Go",
			"description": "Concurrency and networking.",
		})
		if code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %v", code, body)
		}
		courseID = dataField(t, body, "id")
	})

	t.Run("StudentCannotCreateCourse", func(t *testing.T) {
		code, _ := doJSON(t, env, http.MethodPost, "/api/courses", studentTok, map[string]string{"title": "Nope"})
		if code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", code)
		}
	})

	t.Run("StudentEnrolls", func(t *testing.T) {
		code, body := doJSON(t, env, http.MethodPost, "/api/courses/"+courseID+"/enroll", studentTok, nil)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %v", code, body)
		}
	})

	t.Run("DuplicateEnrollmentConflicts", func(t *testing.T) {
		code, _ := doJSON(t, env, http.MethodPost, "/api/courses/"+courseID+"/enroll", studentTok, nil)
		if code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", code)
		}
	})

	t.Run("TeacherCreatesAssignment", func(t *testing.T) {
		code, body := doJSON(t, env, http.MethodPost, "/api/assignments", teacherTok, map[string]interface{}{
			"course_id":   courseID,
			"title":       "Worker Pools",
			"description": "Implement a bounded worker pool.",
			"due_date":    time.Now().AddDate(0, 0, 7),
		})
		if code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %v", code, body)
		}
		assignmentID = dataField(t, body, "id")
	})

	t.Run("CourseAssignmentsListed", func(t *testing.T) {
		code, body := doJSON(t, env, http.MethodGet, "/api/courses/"+courseID+"/assignments", studentTok, nil)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %v", code, body)
		}

		assignments := body["data"].([]interface{})
		if len(assignments) != 1 {
			t.Fatalf("expected 1 assignment, got %d", len(assignments))
		}
		if assignments[0].(map[string]interface{})["title"] != "Worker Pools" {
			t.Errorf("unexpected assignment listing: %v", assignments[0])
		}
	})

	t.Run("OtherTeacherCannotCreateAssignmentInCourse", func(t *testing.T) {
		code, _ := doJSON(t, env, http.MethodPost, "/api/assignments", otherTeacherTok, map[string]interface{}{
			"course_id": courseID,
			"title":     "Hijacked",
		})
		if code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", code)
		}
	})

	t.Run("EmptySubmissionRejected", func(t *testing.T) {
		code, _ := doJSON(t, env, http.MethodPost, "/api/assignments/"+assignmentID+"/submit", studentTok, map[string]string{"content": ""})
		if code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", code)
		}
	})

	t.Run("StudentSubmits", func(t *testing.T) {
		code, body := doJSON(t, env, http.MethodPost, "/api/assignments/"+assignmentID+"/submit", studentTok, map[string]string{
			"content": "A pool of goroutines reads jobs from a channel.",
		})
		if code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %v", code, body)
		}
		submissionID = dataField(t, body, "id")
	})

	t.Run("SubmitAgainstMissingAssignment", func(t *testing.T) {
		code, _ := doJSON(t, env, http.MethodPost, "/api/assignments/asg_missing/submit", studentTok, map[string]string{"content": "x"})
		if code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", code)
		}
	})

	t.Run("StudentCannotGrade", func(t *testing.T) {
		code, _ := doJSON(t, env, http.MethodPost, "/api/submissions/"+submissionID+"/grade", studentTok, map[string]interface{}{"grade": 100})
		if code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", code)
		}
	})

	t.Run("OtherTeacherCannotGrade", func(t *testing.T) {
		code, _ := doJSON(t, env, http.MethodPost, "/api/submissions/"+submissionID+"/grade", otherTeacherTok, map[string]interface{}{"grade": 50})
		if code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", code)
		}
	})

	t.Run("OutOfRangeGradeRejected", func(t *testing.T) {
		code, _ := doJSON(t, env, http.MethodPost, "/api/submissions/"+submissionID+"/grade", teacherTok, map[string]interface{}{"grade": 150})
		if code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", code)
		}
	})

	t.Run("OwningTeacherGrades", func(t *testing.T) {
		code, body := doJSON(t, env, http.MethodPost, "/api/submissions/"+submissionID+"/grade", teacherTok, map[string]interface{}{
			"grade":    85,
			"feedback": "Good work",
		})
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %v", code, body)
		}

		data := body["data"].(map[string]interface{})
		if data["status"] != shared.StatusGraded {
			t.Errorf("expected graded status, got %v", data["status"])
		}
		if data["grade"].(float64) != 85 {
			t.Errorf("expected grade 85, got %v", data["grade"])
		}
	})

	t.Run("StudentSeesGradedSubmission", func(t *testing.T) {
		code, body := doJSON(t, env, http.MethodGet, "/api/submissions/mine", studentTok, nil)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}

		subs := body["data"].([]interface{})
		if len(subs) != 1 {
			t.Fatalf("expected 1 submission, got %d", len(subs))
		}
		sub := subs[0].(map[string]interface{})
		if sub["feedback"] != "Good work" {
			t.Errorf("feedback not visible to student: %v", sub["feedback"])
		}
		if sub["assignment_title"] != "Worker Pools" {
			t.Errorf("assignment title not hydrated: %v", sub["assignment_title"])
		}
	})

	t.Run("TeacherListsSubmissions", func(t *testing.T) {
		code, body := doJSON(t, env, http.MethodGet, "/api/assignments/"+assignmentID+"/submissions", teacherTok, nil)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		subs := body["data"].([]interface{})
		if len(subs) != 1 {
			t.Fatalf("expected 1 submission, got %d", len(subs))
		}
		if subs[0].(map[string]interface{})["student_name"] != "John Student" {
			t.Error("student name not hydrated for teacher listing")
		}
	})

	t.Run("AIGradeMalformedResponse", func(t *testing.T) {
		env.Completer.response = "```json\n{\"score\": 70, \"feedback\": \"x\", \"strengths\": \"\", \"areasForImprovement\": \"\"}\n```"

		code, _ := doJSON(t, env, http.MethodPost, "/api/submissions/"+submissionID+"/grade/ai", teacherTok, map[string]string{
			"question":      "Explain worker pools.",
			"rubric":        "Correctness 100.",
			"studentAnswer": "A pool of goroutines reads jobs from a channel.",
		})
		if code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503 for fenced response, got %d", code)
		}
	})

	t.Run("AIGradePersists", func(t *testing.T) {
		env.Completer.response = `{"score": 91, "feedback": "Accurate and concise.", "strengths": "Channel semantics.", "areasForImprovement": "Mention shutdown."}`

		code, body := doJSON(t, env, http.MethodPost, "/api/submissions/"+submissionID+"/grade/ai", teacherTok, map[string]string{
			"question":      "Explain worker pools.",
			"rubric":        "Correctness 100.",
			"studentAnswer": "A pool of goroutines reads jobs from a channel.",
		})
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %v", code, body)
		}

		result := body["result"].(map[string]interface{})
		if result["score"].(float64) != 91 {
			t.Errorf("expected score 91, got %v", result["score"])
		}

		sub := body["submission"].(map[string]interface{})
		if sub["status"] != shared.StatusGraded || sub["grade"].(float64) != 91 {
			t.Errorf("AI grade not persisted: %v", sub)
		}
	})

	t.Run("UnauthenticatedRejected", func(t *testing.T) {
		code, _ := doJSON(t, env, http.MethodGet, "/api/submissions/mine", "", nil)
		if code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", code)
		}
	})
}

// TestForumWorkflow covers posting and replying in a course forum.
func TestForumWorkflow(t *testing.T) {
	env := setupGatewayTestEnv(t)
	seedUsers(t, env)

	teacherTok := tokenFor(t, "teacher-001", "Grace Hopper", "teacher@example.com", shared.RoleTeacher)
	studentTok := tokenFor(t, "student-001", "John Student", "student@example.com", shared.RoleStudent)

	code, body := doJSON(t, env, http.MethodPost, "/api/courses", teacherTok, map[string]string{"title": "Databases"})
	if code != http.StatusCreated {
		t.Fatalf("course creation failed: %d", code)
	}
	courseID := dataField(t, body, "id")

	code, body = doJSON(t, env, http.MethodPost, "/api/forum/posts", studentTok, map[string]string{
		"course_id": courseID,
		"title":     "Question about indexes",
		"content":   "When does a covering index help?",
	})
	if code != http.StatusCreated {
		t.Fatalf("post creation failed: %d: %v", code, body)
	}
	postID := dataField(t, body, "id")

	code, body = doJSON(t, env, http.MethodPost, "/api/forum/posts/"+postID+"/replies", teacherTok, map[string]string{
		"content": "When the query reads only indexed columns.",
	})
	if code != http.StatusCreated {
		t.Fatalf("reply failed: %d: %v", code, body)
	}

	data := body["data"].(map[string]interface{})
	replies := data["replies"].([]interface{})
	if len(replies) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(replies))
	}
	if replies[0].(map[string]interface{})["author_name"] != "Grace Hopper" {
		t.Error("reply author name not denormalized")
	}

	code, _ = doJSON(t, env, http.MethodPost, "/api/forum/posts/post_missing/replies", studentTok, map[string]string{"content": "hi"})
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing post, got %d", code)
	}
}

// TestAIChatUnavailable verifies the fail-fast path when the provider is not
// configured.
func TestAIChatUnavailable(t *testing.T) {
	env := setupGatewayTestEnv(t)
	seedUsers(t, env)

	teacherTok := tokenFor(t, "teacher-001", "Grace Hopper", "teacher@example.com", shared.RoleTeacher)

	code, body := doJSON(t, env, http.MethodPost, "/api/courses", teacherTok, map[string]string{"title": "Go"})
	if code != http.StatusCreated {
		t.Fatalf("course creation failed: %d", code)
	}
	courseID := dataField(t, body, "id")

	// Simulate an unreachable provider.
	env.Completer.err = context.DeadlineExceeded

	code, _ = doJSON(t, env, http.MethodPost, "/api/ai/chat", teacherTok, map[string]string{
		"course_id": courseID,
		"question":  "What is a goroutine?",
	})
	if code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", code)
	}
}
