// ============================================================================
// backend/internal/shared/models.go
// Shared data models and structs for MongoDB documents
// ============================================================================

package shared

import (
	"time"
)

// ============================================================================
// User Models
// ============================================================================

// User represents a platform account (student or teacher). Credentials live
// with the external identity service; this document carries only profile and
// enrollment state.
type User struct {
	ID              string    `bson:"_id" json:"id"`
	Email           string    `bson:"email" json:"email"`
	Name            string    `bson:"name" json:"name"`
	Role            string    `bson:"role" json:"role"` // student, teacher
	EnrolledCourses []string  `bson:"enrolled_courses,omitempty" json:"enrolled_courses,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Principal is the authenticated identity acting on a request, extracted from
// the bearer token by the gateway middleware.
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IsTeacher reports whether the principal carries the teacher role.
func (p Principal) IsTeacher() bool { return p.Role == RoleTeacher }

// IsStudent reports whether the principal carries the student role.
func (p Principal) IsStudent() bool { return p.Role == RoleStudent }

// ============================================================================
// Course Models
// ============================================================================

// Course represents a course owned by exactly one teacher.
type Course struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	TeacherID   string    `bson:"teacher_id" json:"teacher_id"`
	Students    []string  `bson:"students,omitempty" json:"students,omitempty"`
	CoverImage  string    `bson:"cover_image,omitempty" json:"cover_image,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// HasStudent reports whether the given user is already enrolled.
func (c *Course) HasStudent(userID string) bool {
	for _, id := range c.Students {
		if id == userID {
			return true
		}
	}
	return false
}

// ============================================================================
// Assignment Models
// ============================================================================

// Assignment belongs to exactly one course; the course reference is immutable
// after creation. Submissions is append-only.
type Assignment struct {
	ID          string    `bson:"_id" json:"id"`
	CourseID    string    `bson:"course_id" json:"course_id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	DueDate     time.Time `bson:"due_date" json:"due_date"`
	Submissions []string  `bson:"submissions,omitempty" json:"submissions,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// ============================================================================
// Submission Models
// ============================================================================

// Submission is student work against an assignment. Grade is a pointer so
// "absent" is representable: status == graded exactly when Grade != nil.
type Submission struct {
	ID           string    `bson:"_id" json:"id"`
	AssignmentID string    `bson:"assignment_id" json:"assignment_id"`
	StudentID    string    `bson:"student_id" json:"student_id"`
	Content      string    `bson:"content,omitempty" json:"content,omitempty"`
	FileURL      string    `bson:"file_url,omitempty" json:"file_url,omitempty"`
	Status       string    `bson:"status" json:"status"` // submitted, graded
	Grade        *int32    `bson:"grade,omitempty" json:"grade,omitempty"`
	Feedback     string    `bson:"feedback,omitempty" json:"feedback,omitempty"`
	SubmittedAt  time.Time `bson:"submitted_at" json:"submitted_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// IsGraded reports whether the submission has reached the graded state.
func (s *Submission) IsGraded() bool { return s.Status == StatusGraded }

// SubmissionWithStudent extends Submission with denormalized student info
// for the teacher-facing listing.
type SubmissionWithStudent struct {
	Submission
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
}

// SubmissionWithContext extends Submission with assignment/course titles for
// the student-facing "my submissions" listing.
type SubmissionWithContext struct {
	Submission
	AssignmentTitle string `json:"assignment_title"`
	CourseID        string `json:"course_id"`
	CourseTitle     string `json:"course_title"`
}

// ============================================================================
// Forum Models
// ============================================================================

// ForumReply is an embedded reply on a forum post.
type ForumReply struct {
	AuthorID   string    `bson:"author_id" json:"author_id"`
	AuthorName string    `bson:"author_name,omitempty" json:"author_name,omitempty"`
	Content    string    `bson:"content" json:"content"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// ForumPost is a course discussion thread.
type ForumPost struct {
	ID         string       `bson:"_id" json:"id"`
	CourseID   string       `bson:"course_id" json:"course_id"`
	AuthorID   string       `bson:"author_id" json:"author_id"`
	AuthorName string       `bson:"author_name,omitempty" json:"author_name,omitempty"`
	Title      string       `bson:"title" json:"title"`
	Content    string       `bson:"content" json:"content"`
	Replies    []ForumReply `bson:"replies,omitempty" json:"replies"`
	CreatedAt  time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// ============================================================================
// Response Models (for API responses)
// ============================================================================

// CourseWithTeacher extends Course with the owning teacher's display name.
type CourseWithTeacher struct {
	Course
	TeacherName string `json:"teacher_name,omitempty"`
}

// RosterEntry is a hydrated member of a course roster.
type RosterEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CourseDetails is the full single-course view: owner and roster hydrated.
type CourseDetails struct {
	Course
	Teacher  RosterEntry   `json:"teacher"`
	Roster   []RosterEntry `json:"roster"`
	Enrolled int           `json:"enrolled"`
}

// ============================================================================
// Validation Constants
// ============================================================================

const (
	// User roles
	RoleStudent = "student"
	RoleTeacher = "teacher"

	// Submission statuses
	StatusSubmitted = "submitted"
	StatusGraded    = "graded"

	// Grade bounds (inclusive)
	MinGrade int32 = 0
	MaxGrade int32 = 100
)

// IsValidRole checks if a user role is valid.
func IsValidRole(role string) bool {
	return role == RoleStudent || role == RoleTeacher
}

// IsValidSubmissionStatus checks if a submission status is valid.
func IsValidSubmissionStatus(status string) bool {
	return status == StatusSubmitted || status == StatusGraded
}
