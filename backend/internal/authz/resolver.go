package authz

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"neurocampus/backend/internal/shared"
)

// Resolver walks the fixed-depth ownership chain
// Submission -> Assignment -> Course -> teacher. It never mutates state:
// it loads the chain and answers authorization questions about it.
type Resolver struct {
	submissionsCol *mongo.Collection
	assignmentsCol *mongo.Collection
	coursesCol     *mongo.Collection
}

// NewResolver creates a Resolver over the given database.
func NewResolver(db *mongo.Database) *Resolver {
	return &Resolver{
		submissionsCol: db.Collection("submissions"),
		assignmentsCol: db.Collection("assignments"),
		coursesCol:     db.Collection("courses"),
	}
}

// Chain is the resolved chain of custody for a submission or assignment.
// Submission is nil when the chain was resolved from an assignment id.
type Chain struct {
	Submission *shared.Submission
	Assignment *shared.Assignment
	Course     *shared.Course
}

// ResolveSubmission loads Submission -> Assignment -> Course. A missing hop
// yields NotFound naming the broken link, never PermissionDenied, so callers
// can distinguish "record is gone" from "not yours".
func (r *Resolver) ResolveSubmission(ctx context.Context, submissionID string) (*Chain, error) {
	if submissionID == "" {
		return nil, status.Error(codes.InvalidArgument, "submission id is required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var sub shared.Submission
	if err := r.submissionsCol.FindOne(queryCtx, bson.M{"_id": submissionID}).Decode(&sub); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, status.Error(codes.NotFound, "submission not found")
		}
		log.Printf("Error loading submission %s: %v", submissionID, err)
		return nil, status.Error(codes.Internal, "failed to load submission")
	}

	chain, err := r.resolveAssignment(queryCtx, sub.AssignmentID)
	if err != nil {
		return nil, err
	}
	chain.Submission = &sub
	return chain, nil
}

// ResolveAssignment loads Assignment -> Course.
func (r *Resolver) ResolveAssignment(ctx context.Context, assignmentID string) (*Chain, error) {
	if assignmentID == "" {
		return nil, status.Error(codes.InvalidArgument, "assignment id is required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return r.resolveAssignment(queryCtx, assignmentID)
}

func (r *Resolver) resolveAssignment(ctx context.Context, assignmentID string) (*Chain, error) {
	var asg shared.Assignment
	if err := r.assignmentsCol.FindOne(ctx, bson.M{"_id": assignmentID}).Decode(&asg); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, status.Error(codes.NotFound, "assignment not found")
		}
		log.Printf("Error loading assignment %s: %v", assignmentID, err)
		return nil, status.Error(codes.Internal, "failed to load assignment")
	}

	var course shared.Course
	if err := r.coursesCol.FindOne(ctx, bson.M{"_id": asg.CourseID}).Decode(&course); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, status.Error(codes.NotFound, "course not found")
		}
		log.Printf("Error loading course %s: %v", asg.CourseID, err)
		return nil, status.Error(codes.Internal, "failed to load course")
	}

	return &Chain{Assignment: &asg, Course: &course}, nil
}

// ============================================================================
// Authorization Decisions
// ============================================================================

// AuthorizeGrade allows only the teacher who owns the course that owns the
// assignment that owns the submission. Everyone else, including the
// submitting student and other teachers, is denied with the same message.
func (c *Chain) AuthorizeGrade(p shared.Principal) error {
	if !p.IsTeacher() || c.Course.TeacherID != p.ID {
		return status.Error(codes.PermissionDenied, "not authorized to grade this submission")
	}
	return nil
}

// AuthorizeViewSubmissions allows only the owning teacher to list an
// assignment's submissions.
func (c *Chain) AuthorizeViewSubmissions(p shared.Principal) error {
	if !p.IsTeacher() || c.Course.TeacherID != p.ID {
		return status.Error(codes.PermissionDenied, "not authorized to view these submissions")
	}
	return nil
}

// AuthorizeManage allows only the owning teacher to modify an assignment.
func (c *Chain) AuthorizeManage(p shared.Principal) error {
	if !p.IsTeacher() || c.Course.TeacherID != p.ID {
		return status.Error(codes.PermissionDenied, "not authorized to manage this assignment")
	}
	return nil
}

// AuthorizeSubmit gates submission creation on the student role. Ownership of
// the created submission is the acting principal by construction; enrollment
// is deliberately not rechecked here.
func AuthorizeSubmit(p shared.Principal) error {
	if !p.IsStudent() {
		return status.Error(codes.PermissionDenied, "only students can submit work")
	}
	return nil
}

// AuthorizeEnroll gates enrollment on the student role. The duplicate check
// happens against both membership sets at write time.
func AuthorizeEnroll(p shared.Principal) error {
	if !p.IsStudent() {
		return status.Error(codes.PermissionDenied, "only students can enroll in courses")
	}
	return nil
}

// AuthorizeCreateCourse gates course creation on the teacher role.
func AuthorizeCreateCourse(p shared.Principal) error {
	if !p.IsTeacher() {
		return status.Error(codes.PermissionDenied, "only teachers can create courses")
	}
	return nil
}
