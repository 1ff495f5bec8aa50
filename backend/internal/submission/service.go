package submission

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"neurocampus/backend/internal/authz"
	"neurocampus/backend/internal/shared"
)

// Service owns submission creation and the read paths around submissions.
// Grade writes live in the grading orchestrator, which is the only mutator
// of an existing submission.
type Service struct {
	client         *mongo.Client
	resolver       *authz.Resolver
	submissionsCol *mongo.Collection
	assignmentsCol *mongo.Collection
	coursesCol     *mongo.Collection
	usersCol       *mongo.Collection
}

// NewService creates a new submission Service instance.
func NewService(client *mongo.Client, db *mongo.Database, resolver *authz.Resolver) *Service {
	return &Service{
		client:         client,
		resolver:       resolver,
		submissionsCol: db.Collection("submissions"),
		assignmentsCol: db.Collection("assignments"),
		coursesCol:     db.Collection("courses"),
		usersCol:       db.Collection("users"),
	}
}

// Submit creates a submission for an assignment and appends its id to the
// assignment's submission list. Both writes happen inside one transaction so
// the assignment never references a submission that failed to persist.
func (s *Service) Submit(ctx context.Context, p shared.Principal, assignmentID, content, fileURL string) (*shared.Submission, error) {
	if err := authz.AuthorizeSubmit(p); err != nil {
		return nil, err
	}

	// Existence check before creation: a submission must never point at a
	// missing assignment (fixed-depth chain integrity).
	if _, err := s.resolver.ResolveAssignment(ctx, assignmentID); err != nil {
		return nil, err
	}

	sub, err := New(assignmentID, p.ID, content, fileURL, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = shared.WithTransaction(queryCtx, s.client, func(sessCtx mongo.SessionContext) error {
		if _, err := s.submissionsCol.InsertOne(sessCtx, sub); err != nil {
			return err
		}
		_, err := s.assignmentsCol.UpdateOne(sessCtx,
			bson.M{"_id": assignmentID},
			bson.M{
				"$push": bson.M{"submissions": sub.ID},
				"$set":  bson.M{"updated_at": sub.SubmittedAt},
			},
		)
		return err
	})
	if err != nil {
		log.Printf("Error persisting submission for assignment %s: %v", assignmentID, err)
		return nil, status.Error(codes.Internal, "failed to save submission")
	}

	return sub, nil
}

// ListForAssignment returns every submission for an assignment with the
// submitting student hydrated. Teacher-owner only.
func (s *Service) ListForAssignment(ctx context.Context, p shared.Principal, assignmentID string) ([]shared.SubmissionWithStudent, error) {
	chain, err := s.resolver.ResolveAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if err := chain.AuthorizeViewSubmissions(p); err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := s.submissionsCol.Find(queryCtx, bson.M{"assignment_id": assignmentID})
	if err != nil {
		log.Printf("Error querying submissions for assignment %s: %v", assignmentID, err)
		return nil, status.Error(codes.Internal, "failed to retrieve submissions")
	}
	defer cursor.Close(queryCtx)

	results := []shared.SubmissionWithStudent{}
	for cursor.Next(queryCtx) {
		var sub shared.Submission
		if err := cursor.Decode(&sub); err != nil {
			continue
		}

		entry := shared.SubmissionWithStudent{Submission: sub}
		var student shared.User
		if err := s.usersCol.FindOne(queryCtx, bson.M{"_id": sub.StudentID}).Decode(&student); err == nil {
			entry.StudentName = student.Name
			entry.StudentEmail = student.Email
		}
		results = append(results, entry)
	}

	return results, nil
}

// ListMine returns the acting student's own submissions, newest first, with
// assignment and course titles hydrated.
func (s *Service) ListMine(ctx context.Context, p shared.Principal) ([]shared.SubmissionWithContext, error) {
	if !p.IsStudent() {
		return nil, status.Error(codes.PermissionDenied, "only students can view their own submissions")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	cursor, err := s.submissionsCol.Find(queryCtx, bson.M{"student_id": p.ID}, findOptions)
	if err != nil {
		log.Printf("Error querying submissions for student %s: %v", p.ID, err)
		return nil, status.Error(codes.Internal, "failed to retrieve submissions")
	}
	defer cursor.Close(queryCtx)

	results := []shared.SubmissionWithContext{}
	for cursor.Next(queryCtx) {
		var sub shared.Submission
		if err := cursor.Decode(&sub); err != nil {
			continue
		}

		entry := shared.SubmissionWithContext{Submission: sub}

		var asg shared.Assignment
		if err := s.assignmentsCol.FindOne(queryCtx, bson.M{"_id": sub.AssignmentID}).Decode(&asg); err == nil {
			entry.AssignmentTitle = asg.Title
			entry.CourseID = asg.CourseID

			var course shared.Course
			if err := s.coursesCol.FindOne(queryCtx, bson.M{"_id": asg.CourseID}).Decode(&course); err == nil {
				entry.CourseTitle = course.Title
			}
		}

		results = append(results, entry)
	}

	return results, nil
}
