package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"neurocampus/backend/internal/ai"
	"neurocampus/backend/internal/assignment"
	"neurocampus/backend/internal/course"
	"neurocampus/backend/internal/forum"
	"neurocampus/backend/internal/gateway/handlers"
	"neurocampus/backend/internal/grading"
	"neurocampus/backend/internal/shared"
	"neurocampus/backend/internal/storage"
	"neurocampus/backend/internal/submission"
)

// Services bundles the service-layer dependencies the router wires into
// handlers.
type Services struct {
	Courses     *course.Service
	Assignments *assignment.Service
	Submissions *submission.Service
	Grading     *grading.Orchestrator
	Forum       *forum.Service
	AI          *ai.Service
	Store       *storage.DiskStore
}

// SetupRoutes configures the Chi router, middleware, and route handlers.
func SetupRoutes(config *shared.AppConfig, svcs *Services) *chi.Mux {
	r := chi.NewRouter()

	// 1. Global Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.CORS.AllowedOrigins,
		AllowedMethods:   config.CORS.AllowedMethods,
		AllowedHeaders:   config.CORS.AllowedHeaders,
		AllowCredentials: config.CORS.AllowCredentials,
		MaxAge:           config.CORS.MaxAge,
	}))

	// 2. Initialize Handlers
	courseHandler := &handlers.CourseHandler{Courses: svcs.Courses}
	assignmentHandler := &handlers.AssignmentHandler{Assignments: svcs.Assignments}
	submissionHandler := &handlers.SubmissionHandler{
		Submissions: svcs.Submissions,
		Grading:     svcs.Grading,
		Store:       svcs.Store,
		MaxUpload:   config.Uploads.MaxSizeBytes,
	}
	forumHandler := &handlers.ForumHandler{Forum: svcs.Forum}
	aiHandler := &handlers.AIHandler{
		AI:        svcs.AI,
		Store:     svcs.Store,
		MaxUpload: config.Uploads.MaxSizeBytes,
	}

	// 3. Define Routes (grouped by prefix)
	r.Route("/api", func(r chi.Router) {

		// --- Public Routes ---

		// Course Catalog (Publicly viewable)
		r.Get("/courses", courseHandler.ListCourses)

		// --- Protected Routes (Require Valid Token) ---
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(config.Security.JWTSecret))

			// Courses
			r.Post("/courses", courseHandler.CreateCourse)
			r.Get("/courses/mine", courseHandler.ListMyCourses)
			r.Get("/courses/{course_id}", courseHandler.GetCourse)
			r.Post("/courses/{course_id}/enroll", courseHandler.Enroll)
			r.Get("/courses/{course_id}/assignments", assignmentHandler.ListForCourse)

			// Assignments
			r.Route("/assignments", func(r chi.Router) {
				r.Get("/", assignmentHandler.ListAssignments)
				r.Post("/", assignmentHandler.CreateAssignment)
				r.Get("/{assignment_id}", assignmentHandler.GetAssignment)
				r.Put("/{assignment_id}", assignmentHandler.UpdateAssignment)
				r.Delete("/{assignment_id}", assignmentHandler.DeleteAssignment)
				r.Post("/{assignment_id}/submit", submissionHandler.Submit)
				r.Get("/{assignment_id}/submissions", submissionHandler.ListForAssignment)
			})

			// Submissions and Grading
			r.Route("/submissions", func(r chi.Router) {
				r.Get("/mine", submissionHandler.ListMine)
				r.Post("/{submission_id}/grade", submissionHandler.Grade)
				r.Post("/{submission_id}/grade/ai", submissionHandler.GradeWithAI)
			})

			// Forum
			r.Route("/forum", func(r chi.Router) {
				r.Get("/posts", forumHandler.ListPosts)
				r.Post("/posts", forumHandler.CreatePost)
				r.Post("/posts/{post_id}/replies", forumHandler.AddReply)
			})

			// AI Assistant
			r.Route("/ai", func(r chi.Router) {
				r.Post("/chat", aiHandler.Chat)
				r.Post("/summarize", aiHandler.Summarize)
			})
		})
	})

	// Uploaded files
	uploadServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(svcs.Store.Dir())))
	r.Get("/uploads/*", func(w http.ResponseWriter, req *http.Request) {
		uploadServer.ServeHTTP(w, req)
	})

	// Liveness
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"` + config.ServiceName + `"}`))
	})

	return r
}
