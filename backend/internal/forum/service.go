package forum

import (
	"context"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"neurocampus/backend/internal/shared"
)

// Service handles course discussion posts and their embedded replies.
type Service struct {
	postsCol   *mongo.Collection
	coursesCol *mongo.Collection
}

// NewService creates a new forum Service instance.
func NewService(db *mongo.Database) *Service {
	return &Service{
		postsCol:   db.Collection("forum_posts"),
		coursesCol: db.Collection("courses"),
	}
}

// ListPosts returns a course's posts, newest first. Author names are stored
// denormalized on the post at write time, so no hydration pass is needed.
func (s *Service) ListPosts(ctx context.Context, courseID string) ([]shared.ForumPost, error) {
	if courseID == "" {
		return nil, status.Error(codes.InvalidArgument, "course id is required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := s.postsCol.Find(queryCtx, bson.M{"course_id": courseID}, shared.BuildFindOptions(0, "created_at", -1))
	if err != nil {
		log.Printf("Error listing forum posts for course %s: %v", courseID, err)
		return nil, status.Error(codes.Internal, "failed to list posts")
	}
	defer cursor.Close(queryCtx)

	posts := []shared.ForumPost{}
	if err := cursor.All(queryCtx, &posts); err != nil {
		log.Printf("Error decoding forum posts: %v", err)
		return nil, status.Error(codes.Internal, "failed to list posts")
	}

	return posts, nil
}

// CreateRequest carries the fields for a new forum post.
type CreateRequest struct {
	CourseID string `json:"course_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// CreatePost starts a new discussion thread in a course.
func (s *Service) CreatePost(ctx context.Context, p shared.Principal, req CreateRequest) (*shared.ForumPost, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.CourseID == "" || req.Title == "" || req.Content == "" {
		return nil, status.Error(codes.InvalidArgument, "course id, title and content are required")
	}

	count, err := shared.CountDocumentsWithTimeout(ctx, s.coursesCol, bson.M{"_id": req.CourseID}, 10*time.Second)
	if err != nil {
		log.Printf("Error checking course %s: %v", req.CourseID, err)
		return nil, status.Error(codes.Internal, "failed to create post")
	}
	if count == 0 {
		return nil, status.Error(codes.NotFound, "course not found")
	}

	now := time.Now()
	post := shared.ForumPost{
		ID:         shared.GeneratePostID(),
		CourseID:   req.CourseID,
		AuthorID:   p.ID,
		AuthorName: p.Name,
		Title:      req.Title,
		Content:    req.Content,
		Replies:    []shared.ForumReply{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.postsCol.InsertOne(queryCtx, post); err != nil {
		log.Printf("Error creating forum post: %v", err)
		return nil, status.Error(codes.Internal, "failed to create post")
	}

	return &post, nil
}

// AddReply appends a reply to an existing post.
func (s *Service) AddReply(ctx context.Context, p shared.Principal, postID, content string) (*shared.ForumPost, error) {
	content = strings.TrimSpace(content)
	if postID == "" || content == "" {
		return nil, status.Error(codes.InvalidArgument, "post id and content are required")
	}

	reply := shared.ForumReply{
		AuthorID:   p.ID,
		AuthorName: p.Name,
		Content:    content,
		CreatedAt:  time.Now(),
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := s.postsCol.UpdateOne(queryCtx,
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"replies": reply}, "$set": bson.M{"updated_at": reply.CreatedAt}},
	)
	if err != nil {
		log.Printf("Error adding reply to post %s: %v", postID, err)
		return nil, status.Error(codes.Internal, "failed to add reply")
	}
	if res.MatchedCount == 0 {
		return nil, status.Error(codes.NotFound, "post not found")
	}

	var post shared.ForumPost
	if err := s.postsCol.FindOne(queryCtx, bson.M{"_id": postID}).Decode(&post); err != nil {
		log.Printf("Error reloading post %s: %v", postID, err)
		return nil, status.Error(codes.Internal, "failed to load post")
	}

	return &post, nil
}
