package course

import (
	"context"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"neurocampus/backend/internal/authz"
	"neurocampus/backend/internal/shared"
)

// Service handles the course catalog and enrollment.
type Service struct {
	client     *mongo.Client
	coursesCol *mongo.Collection
	usersCol   *mongo.Collection
}

// NewService creates a new course Service instance.
func NewService(client *mongo.Client, db *mongo.Database) *Service {
	return &Service{
		client:     client,
		coursesCol: db.Collection("courses"),
		usersCol:   db.Collection("users"),
	}
}

// List returns the catalog with the owning teacher's name hydrated per
// course.
func (s *Service) List(ctx context.Context) ([]shared.CourseWithTeacher, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := s.coursesCol.Find(queryCtx, bson.M{}, shared.BuildFindOptions(0, "created_at", -1))
	if err != nil {
		log.Printf("Error listing courses: %v", err)
		return nil, status.Error(codes.Internal, "failed to list courses")
	}
	defer cursor.Close(queryCtx)

	var courses []shared.Course
	if err := cursor.All(queryCtx, &courses); err != nil {
		log.Printf("Error decoding courses: %v", err)
		return nil, status.Error(codes.Internal, "failed to list courses")
	}

	result := make([]shared.CourseWithTeacher, 0, len(courses))
	for _, c := range courses {
		entry := shared.CourseWithTeacher{Course: c}

		var teacher shared.User
		if err := s.usersCol.FindOne(queryCtx, bson.M{"_id": c.TeacherID}).Decode(&teacher); err == nil {
			entry.TeacherName = teacher.Name
		}

		result = append(result, entry)
	}

	return result, nil
}

// CreateRequest carries the fields for a new course.
type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
}

// Create adds a new course owned by the acting teacher.
func (s *Service) Create(ctx context.Context, p shared.Principal, req CreateRequest) (*shared.Course, error) {
	if err := authz.AuthorizeCreateCourse(p); err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, status.Error(codes.InvalidArgument, "course title is required")
	}

	now := time.Now()
	course := shared.Course{
		ID:          shared.GenerateCourseID(),
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		TeacherID:   p.ID,
		CoverImage:  req.CoverImage,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.coursesCol.InsertOne(queryCtx, course); err != nil {
		log.Printf("Error creating course: %v", err)
		return nil, status.Error(codes.Internal, "failed to create course")
	}

	log.Printf("Course %s created by teacher %s", course.ID, p.ID)
	return &course, nil
}

// Get returns one course with its teacher and roster hydrated.
func (s *Service) Get(ctx context.Context, courseID string) (*shared.CourseDetails, error) {
	if courseID == "" {
		return nil, status.Error(codes.InvalidArgument, "course id is required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var course shared.Course
	if err := s.coursesCol.FindOne(queryCtx, bson.M{"_id": courseID}).Decode(&course); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, status.Error(codes.NotFound, "course not found")
		}
		log.Printf("Error loading course %s: %v", courseID, err)
		return nil, status.Error(codes.Internal, "failed to load course")
	}

	details := shared.CourseDetails{
		Course:   course,
		Enrolled: len(course.Students),
		Roster:   make([]shared.RosterEntry, 0, len(course.Students)),
	}

	var teacher shared.User
	if err := s.usersCol.FindOne(queryCtx, bson.M{"_id": course.TeacherID}).Decode(&teacher); err == nil {
		details.Teacher = shared.RosterEntry{ID: teacher.ID, Name: teacher.Name, Email: teacher.Email}
	}

	for _, studentID := range course.Students {
		var student shared.User
		if err := s.usersCol.FindOne(queryCtx, bson.M{"_id": studentID}).Decode(&student); err != nil {
			continue
		}
		details.Roster = append(details.Roster, shared.RosterEntry{
			ID:    student.ID,
			Name:  student.Name,
			Email: student.Email,
		})
	}

	return &details, nil
}

// Enroll adds the acting student to a course. Membership is denormalized on
// both the course roster and the student's enrolled set, so the write runs in
// a transaction and the duplicate check covers both sides.
func (s *Service) Enroll(ctx context.Context, p shared.Principal, courseID string) (*shared.Course, error) {
	if err := authz.AuthorizeEnroll(p); err != nil {
		return nil, err
	}
	if courseID == "" {
		return nil, status.Error(codes.InvalidArgument, "course id is required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var course shared.Course
	if err := s.coursesCol.FindOne(queryCtx, bson.M{"_id": courseID}).Decode(&course); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, status.Error(codes.NotFound, "course not found")
		}
		log.Printf("Error loading course %s: %v", courseID, err)
		return nil, status.Error(codes.Internal, "failed to load course")
	}

	var user shared.User
	if err := s.usersCol.FindOne(queryCtx, bson.M{"_id": p.ID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, status.Error(codes.NotFound, "user not found")
		}
		log.Printf("Error loading user %s: %v", p.ID, err)
		return nil, status.Error(codes.Internal, "failed to load user")
	}

	if course.HasStudent(p.ID) || containsCourse(user.EnrolledCourses, courseID) {
		return nil, status.Error(codes.AlreadyExists, "already enrolled in this course")
	}

	now := time.Now()
	err := shared.WithTransaction(ctx, s.client, func(sessCtx mongo.SessionContext) error {
		if _, err := s.coursesCol.UpdateOne(sessCtx,
			bson.M{"_id": courseID},
			bson.M{"$addToSet": bson.M{"students": p.ID}, "$set": bson.M{"updated_at": now}},
		); err != nil {
			return err
		}
		_, err := s.usersCol.UpdateOne(sessCtx,
			bson.M{"_id": p.ID},
			bson.M{"$addToSet": bson.M{"enrolled_courses": courseID}, "$set": bson.M{"updated_at": now}},
		)
		return err
	})
	if err != nil {
		log.Printf("Error enrolling student %s in course %s: %v", p.ID, courseID, err)
		return nil, status.Error(codes.Internal, "failed to enroll in course")
	}

	log.Printf("Student %s enrolled in course %s", p.ID, courseID)

	course.Students = append(course.Students, p.ID)
	course.UpdatedAt = now
	return &course, nil
}

// ListEnrolled returns the courses the acting student is enrolled in.
func (s *Service) ListEnrolled(ctx context.Context, p shared.Principal) ([]shared.CourseWithTeacher, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var filter bson.M
	if p.IsTeacher() {
		filter = bson.M{"teacher_id": p.ID}
	} else {
		filter = bson.M{"students": p.ID}
	}

	cursor, err := s.coursesCol.Find(queryCtx, filter, shared.BuildFindOptions(0, "created_at", -1))
	if err != nil {
		log.Printf("Error listing enrolled courses for %s: %v", p.ID, err)
		return nil, status.Error(codes.Internal, "failed to list courses")
	}
	defer cursor.Close(queryCtx)

	var courses []shared.Course
	if err := cursor.All(queryCtx, &courses); err != nil {
		log.Printf("Error decoding courses: %v", err)
		return nil, status.Error(codes.Internal, "failed to list courses")
	}

	result := make([]shared.CourseWithTeacher, 0, len(courses))
	for _, c := range courses {
		entry := shared.CourseWithTeacher{Course: c}
		var teacher shared.User
		if err := s.usersCol.FindOne(queryCtx, bson.M{"_id": c.TeacherID}).Decode(&teacher); err == nil {
			entry.TeacherName = teacher.Name
		}
		result = append(result, entry)
	}

	return result, nil
}

func containsCourse(ids []string, courseID string) bool {
	for _, id := range ids {
		if id == courseID {
			return true
		}
	}
	return false
}
