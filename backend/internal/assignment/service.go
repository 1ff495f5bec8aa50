package assignment

import (
	"context"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"neurocampus/backend/internal/authz"
	"neurocampus/backend/internal/shared"
)

// Service handles assignment CRUD. Mutations authorize through the
// assignment's ownership chain; only the teacher who owns the parent course
// may create, update or delete.
type Service struct {
	resolver       *authz.Resolver
	assignmentsCol *mongo.Collection
	coursesCol     *mongo.Collection
	submissionsCol *mongo.Collection
}

// NewService creates a new assignment Service instance.
func NewService(db *mongo.Database, resolver *authz.Resolver) *Service {
	return &Service{
		resolver:       resolver,
		assignmentsCol: db.Collection("assignments"),
		coursesCol:     db.Collection("courses"),
		submissionsCol: db.Collection("submissions"),
	}
}

// List returns assignments, optionally filtered to one course, due date
// ascending.
func (s *Service) List(ctx context.Context, courseID string) ([]shared.Assignment, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if courseID != "" {
		filter["course_id"] = courseID
	}

	cursor, err := s.assignmentsCol.Find(queryCtx, filter, shared.BuildFindOptions(0, "due_date", 1))
	if err != nil {
		log.Printf("Error listing assignments: %v", err)
		return nil, status.Error(codes.Internal, "failed to list assignments")
	}
	defer cursor.Close(queryCtx)

	assignments := []shared.Assignment{}
	if err := cursor.All(queryCtx, &assignments); err != nil {
		log.Printf("Error decoding assignments: %v", err)
		return nil, status.Error(codes.Internal, "failed to list assignments")
	}

	return assignments, nil
}

// Get returns one assignment.
func (s *Service) Get(ctx context.Context, assignmentID string) (*shared.Assignment, error) {
	if assignmentID == "" {
		return nil, status.Error(codes.InvalidArgument, "assignment id is required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var asg shared.Assignment
	if err := s.assignmentsCol.FindOne(queryCtx, bson.M{"_id": assignmentID}).Decode(&asg); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, status.Error(codes.NotFound, "assignment not found")
		}
		log.Printf("Error loading assignment %s: %v", assignmentID, err)
		return nil, status.Error(codes.Internal, "failed to load assignment")
	}

	return &asg, nil
}

// CreateRequest carries the fields for a new assignment.
type CreateRequest struct {
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
}

// Create adds an assignment to a course the acting teacher owns.
func (s *Service) Create(ctx context.Context, p shared.Principal, req CreateRequest) (*shared.Assignment, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.CourseID == "" || req.Title == "" {
		return nil, status.Error(codes.InvalidArgument, "course id and title are required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var course shared.Course
	if err := s.coursesCol.FindOne(queryCtx, bson.M{"_id": req.CourseID}).Decode(&course); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, status.Error(codes.NotFound, "course not found")
		}
		log.Printf("Error loading course %s: %v", req.CourseID, err)
		return nil, status.Error(codes.Internal, "failed to load course")
	}

	if !p.IsTeacher() || course.TeacherID != p.ID {
		return nil, status.Error(codes.PermissionDenied, "not authorized to manage this assignment")
	}

	now := time.Now()
	asg := shared.Assignment{
		ID:          shared.GenerateAssignmentID(),
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.assignmentsCol.InsertOne(queryCtx, asg); err != nil {
		log.Printf("Error creating assignment: %v", err)
		return nil, status.Error(codes.Internal, "failed to create assignment")
	}

	log.Printf("Assignment %s created in course %s by teacher %s", asg.ID, req.CourseID, p.ID)
	return &asg, nil
}

// UpdateRequest carries the mutable assignment fields. The course reference
// is immutable after creation and deliberately absent here.
type UpdateRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// Update modifies an assignment's title, description or due date.
func (s *Service) Update(ctx context.Context, p shared.Principal, assignmentID string, req UpdateRequest) (*shared.Assignment, error) {
	chain, err := s.resolver.ResolveAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if err := chain.AuthorizeManage(p); err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now()}
	if title := strings.TrimSpace(req.Title); title != "" {
		set["title"] = title
	}
	if req.Description != "" {
		set["description"] = strings.TrimSpace(req.Description)
	}
	if req.DueDate != nil {
		set["due_date"] = *req.DueDate
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var updated shared.Assignment
	err = s.assignmentsCol.FindOneAndUpdate(queryCtx,
		bson.M{"_id": assignmentID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, status.Error(codes.NotFound, "assignment not found")
		}
		log.Printf("Error updating assignment %s: %v", assignmentID, err)
		return nil, status.Error(codes.Internal, "failed to update assignment")
	}

	return &updated, nil
}

// Delete removes an assignment and its submissions.
func (s *Service) Delete(ctx context.Context, p shared.Principal, assignmentID string) error {
	chain, err := s.resolver.ResolveAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}
	if err := chain.AuthorizeManage(p); err != nil {
		return err
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.assignmentsCol.DeleteOne(queryCtx, bson.M{"_id": assignmentID}); err != nil {
		log.Printf("Error deleting assignment %s: %v", assignmentID, err)
		return status.Error(codes.Internal, "failed to delete assignment")
	}

	// Orphaned submissions are unreachable once the assignment is gone.
	if _, err := s.submissionsCol.DeleteMany(queryCtx, bson.M{"assignment_id": assignmentID}); err != nil {
		log.Printf("Error deleting submissions for assignment %s: %v", assignmentID, err)
	}

	log.Printf("Assignment %s deleted by teacher %s", assignmentID, p.ID)
	return nil
}
