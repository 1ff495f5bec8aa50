package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"neurocampus/backend/internal/shared"
)

// Fixed IDs so the frontend and integration tests can reference seeded data.
const (
	TeacherID1 = "teacher-001" // Grace Hopper, teacher@example.com
	TeacherID2 = "teacher-002" // Alan Kay, teacher2@example.com
	StudentID1 = "student-001" // John Student, student@example.com
	StudentID2 = "student-002" // Alice Wonderland, student2@example.com
	StudentID3 = "student-003" // Bob Builder, student3@example.com

	CourseID1 = "crs_seed-go-systems"
	CourseID2 = "crs_seed-databases"

	AssignmentID1 = "asg_seed-go-hw1"
	AssignmentID2 = "asg_seed-go-hw2"
	AssignmentID3 = "asg_seed-db-hw1"
)

func main() {
	log.Println("Starting Database Seeder...")

	if err := shared.LoadEnv(".env"); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := shared.LoadAppConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, db, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	// Drop all collections to ensure a clean start
	if err := db.Drop(context.Background()); err != nil {
		log.Fatalf("Failed to drop database: %v", err)
	}
	log.Println("Database cleared successfully.")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seedUsers(ctx, db)
	seedCourses(ctx, db)
	seedAssignments(ctx, db)
	seedSubmissions(ctx, db)

	log.Println("Seeding complete.")
}

func seedUsers(ctx context.Context, db *mongo.Database) {
	now := time.Now()
	users := []interface{}{
		shared.User{ID: TeacherID1, Email: "teacher@example.com", Name: "Grace Hopper", Role: shared.RoleTeacher, CreatedAt: now},
		shared.User{ID: TeacherID2, Email: "teacher2@example.com", Name: "Alan Kay", Role: shared.RoleTeacher, CreatedAt: now},
		shared.User{ID: StudentID1, Email: "student@example.com", Name: "John Student", Role: shared.RoleStudent, EnrolledCourses: []string{CourseID1}, CreatedAt: now},
		shared.User{ID: StudentID2, Email: "student2@example.com", Name: "Alice Wonderland", Role: shared.RoleStudent, EnrolledCourses: []string{CourseID1, CourseID2}, CreatedAt: now},
		shared.User{ID: StudentID3, Email: "student3@example.com", Name: "Bob Builder", Role: shared.RoleStudent, CreatedAt: now},
	}

	if _, err := db.Collection("users").InsertMany(ctx, users); err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("Seeded %d users", len(users))
}

func seedCourses(ctx context.Context, db *mongo.Database) {
	now := time.Now()
	courses := []interface{}{
		shared.Course{
			ID:          CourseID1,
			Title:       "Systems Programming in Go",
			Description: "Concurrency, networking and tooling with Go.",
			TeacherID:   TeacherID1,
			Students:    []string{StudentID1, StudentID2},
			CreatedAt:   now.AddDate(0, -1, 0),
			UpdatedAt:   now,
		},
		shared.Course{
			ID:          CourseID2,
			Title:       "Database Systems",
			Description: "Storage engines, query processing and transactions.",
			TeacherID:   TeacherID2,
			Students:    []string{StudentID2},
			CreatedAt:   now.AddDate(0, -1, 0),
			UpdatedAt:   now,
		},
	}

	if _, err := db.Collection("courses").InsertMany(ctx, courses); err != nil {
		log.Fatalf("Failed to seed courses: %v", err)
	}
	log.Printf("Seeded %d courses", len(courses))
}

func seedAssignments(ctx context.Context, db *mongo.Database) {
	now := time.Now()
	assignments := []interface{}{
		shared.Assignment{
			ID:          AssignmentID1,
			CourseID:    CourseID1,
			Title:       "Worker Pools",
			Description: "Implement a bounded worker pool with graceful shutdown.",
			DueDate:     now.AddDate(0, 0, 7),
			Submissions: []string{"sub_seed-go-hw1-s1"},
			CreatedAt:   now.AddDate(0, 0, -14),
			UpdatedAt:   now,
		},
		shared.Assignment{
			ID:          AssignmentID2,
			CourseID:    CourseID1,
			Title:       "TCP Chat Server",
			Description: "Build a line-based chat server with rooms.",
			DueDate:     now.AddDate(0, 0, 14),
			CreatedAt:   now.AddDate(0, 0, -7),
			UpdatedAt:   now,
		},
		shared.Assignment{
			ID:          AssignmentID3,
			CourseID:    CourseID2,
			Title:       "B-Tree Index",
			Description: "Explain split and merge behavior of a B-tree under load.",
			DueDate:     now.AddDate(0, 0, 10),
			CreatedAt:   now.AddDate(0, 0, -10),
			UpdatedAt:   now,
		},
	}

	if _, err := db.Collection("assignments").InsertMany(ctx, assignments); err != nil {
		log.Fatalf("Failed to seed assignments: %v", err)
	}
	log.Printf("Seeded %d assignments", len(assignments))
}

func seedSubmissions(ctx context.Context, db *mongo.Database) {
	now := time.Now()
	grade := int32(92)
	submissions := []interface{}{
		shared.Submission{
			ID:           "sub_seed-go-hw1-s1",
			AssignmentID: AssignmentID1,
			StudentID:    StudentID1,
			Content:      "Pool uses a buffered channel of jobs and a WaitGroup for shutdown.",
			Status:       shared.StatusGraded,
			Grade:        &grade,
			Feedback:     "Clean shutdown path. Consider handling panics inside workers.",
			SubmittedAt:  now.AddDate(0, 0, -3),
			UpdatedAt:    now.AddDate(0, 0, -1),
		},
	}

	if _, err := db.Collection("submissions").InsertMany(ctx, submissions); err != nil {
		log.Fatalf("Failed to seed submissions: %v", err)
	}
	log.Printf("Seeded %d submissions", len(submissions))
}
