package ai

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"neurocampus/backend/internal/shared"
)

// Service exposes the conversational tutor and the document summarizer.
// Both are free-form text uses of the shared provider contract; the strict
// JSON use lives in the grading orchestrator.
type Service struct {
	provider   Provider
	coursesCol *mongo.Collection
}

// NewService creates a new AI Service instance.
func NewService(provider Provider, db *mongo.Database) *Service {
	return &Service{
		provider:   provider,
		coursesCol: db.Collection("courses"),
	}
}

// Available reports whether the underlying provider is configured.
func (s *Service) Available() bool { return s.provider.Available() }

// Chat answers a student question in the context of a course.
func (s *Service) Chat(ctx context.Context, courseID, question string) (string, error) {
	if question == "" || courseID == "" {
		return "", status.Error(codes.InvalidArgument, "question and course id are required")
	}

	var course shared.Course
	if err := shared.FindOneWithTimeout(ctx, s.coursesCol, bson.M{"_id": courseID}, &course, 10*time.Second); err != nil {
		if err == mongo.ErrNoDocuments {
			return "", status.Error(codes.NotFound, "course not found")
		}
		return "", status.Error(codes.Internal, "failed to load course")
	}

	return s.provider.Complete(ctx, TutorPrompt(course.Title, course.Description, question))
}

// Summarize produces a bullet-point summary of already-extracted document
// text.
func (s *Service) Summarize(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", status.Error(codes.InvalidArgument, "document contains no extractable text")
	}

	return s.provider.Complete(ctx, SummaryPrompt(text))
}
