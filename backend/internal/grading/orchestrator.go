package grading

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"neurocampus/backend/internal/ai"
	"neurocampus/backend/internal/authz"
	"neurocampus/backend/internal/shared"
	"neurocampus/backend/internal/submission"
)

// Orchestrator owns every grade write. Manual grading and delegated AI
// grading both authorize through the ownership chain and converge on the
// same persistence path, so a submission can never be graded through a
// side door with weaker checks.
type Orchestrator struct {
	resolver       *authz.Resolver
	submissionsCol *mongo.Collection
	provider       ai.Provider
}

// NewOrchestrator creates a new grading Orchestrator instance.
func NewOrchestrator(db *mongo.Database, resolver *authz.Resolver, provider ai.Provider) *Orchestrator {
	return &Orchestrator{
		resolver:       resolver,
		submissionsCol: db.Collection("submissions"),
		provider:       provider,
	}
}

// DelegatedRequest carries the grading context forwarded to the provider.
type DelegatedRequest struct {
	Question      string `json:"question"`
	Rubric        string `json:"rubric"`
	StudentAnswer string `json:"studentAnswer"`
}

// DelegatedResult is the structured outcome of a delegated grading run,
// returned to the caller alongside the updated submission.
type DelegatedResult struct {
	Score               int32  `json:"score"`
	Feedback            string `json:"feedback"`
	Strengths           string `json:"strengths"`
	AreasForImprovement string `json:"areasForImprovement"`
}

// GradeManual applies a teacher-entered grade to a submission.
func (o *Orchestrator) GradeManual(ctx context.Context, p shared.Principal, submissionID string, grade int32, feedback string) (*shared.Submission, error) {
	if submissionID == "" {
		return nil, status.Error(codes.InvalidArgument, "submission id is required")
	}
	if err := submission.ValidateGrade(grade); err != nil {
		return nil, err
	}

	chain, err := o.resolver.ResolveSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := chain.AuthorizeGrade(p); err != nil {
		return nil, err
	}

	return o.persistGrade(ctx, chain.Submission, grade, feedback)
}

// GradeDelegated grades a submission through the AI provider. The provider
// output is validated before anything is written; a malformed or unavailable
// response leaves the submission untouched.
func (o *Orchestrator) GradeDelegated(ctx context.Context, p shared.Principal, submissionID string, req DelegatedRequest) (*DelegatedResult, *shared.Submission, error) {
	if submissionID == "" {
		return nil, nil, status.Error(codes.InvalidArgument, "submission id is required")
	}
	if req.Question == "" || req.Rubric == "" || req.StudentAnswer == "" {
		return nil, nil, status.Error(codes.InvalidArgument, "question, rubric and student answer are required")
	}

	chain, err := o.resolver.ResolveSubmission(ctx, submissionID)
	if err != nil {
		return nil, nil, err
	}
	if err := chain.AuthorizeGrade(p); err != nil {
		return nil, nil, err
	}

	result, err := o.evaluate(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	updated, err := o.persistGrade(ctx, chain.Submission, result.Score, composeFeedbackFor(result))
	if err != nil {
		return nil, nil, err
	}

	log.Printf("Submission %s graded by AI delegation (teacher: %s, score: %d)", submissionID, p.ID, result.Score)
	return result, updated, nil
}

// evaluate runs the provider round trip and validates the response. The
// provider's score is held to the same bounds as a manual grade.
func (o *Orchestrator) evaluate(ctx context.Context, req DelegatedRequest) (*DelegatedResult, error) {
	raw, err := o.provider.Complete(ctx, ai.GradingPrompt(req.Question, req.Rubric, req.StudentAnswer))
	if err != nil {
		return nil, err
	}

	parsed, err := parseProviderResult(raw)
	if err != nil {
		return nil, err
	}
	if err := submission.ValidateGrade(*parsed.Score); err != nil {
		return nil, status.Error(codes.Unavailable, "AI provider returned an out-of-range score")
	}

	return &DelegatedResult{
		Score:               *parsed.Score,
		Feedback:            parsed.Feedback,
		Strengths:           parsed.Strengths,
		AreasForImprovement: parsed.AreasForImprovement,
	}, nil
}

// persistGrade writes the grade with a compare-and-set on the submission's
// last observed updated_at. If another grader won the race, the write matches
// nothing and the caller gets Aborted rather than silently overwriting.
func (o *Orchestrator) persistGrade(ctx context.Context, sub *shared.Submission, grade int32, feedback string) (*shared.Submission, error) {
	prevUpdated := sub.UpdatedAt

	if err := submission.ApplyGrade(sub, grade, feedback, time.Now()); err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := o.submissionsCol.UpdateOne(queryCtx,
		bson.M{"_id": sub.ID, "updated_at": prevUpdated},
		bson.M{"$set": bson.M{
			"status":     sub.Status,
			"grade":      sub.Grade,
			"feedback":   sub.Feedback,
			"updated_at": sub.UpdatedAt,
		}},
	)
	if err != nil {
		log.Printf("Error persisting grade for submission %s: %v", sub.ID, err)
		return nil, status.Error(codes.Internal, "failed to persist grade")
	}

	if res.MatchedCount == 0 {
		// Distinguish a vanished submission from a concurrent grader.
		count, countErr := o.submissionsCol.CountDocuments(queryCtx, bson.M{"_id": sub.ID})
		if countErr != nil {
			return nil, status.Error(codes.Internal, "failed to persist grade")
		}
		if count == 0 {
			return nil, status.Error(codes.NotFound, "submission not found")
		}
		return nil, status.Error(codes.Aborted, "submission was modified concurrently, retry the grade")
	}

	return sub, nil
}

func composeFeedbackFor(result *DelegatedResult) string {
	return composeFeedback(&ProviderResult{
		Score:               &result.Score,
		Feedback:            result.Feedback,
		Strengths:           result.Strengths,
		AreasForImprovement: result.AreasForImprovement,
	})
}
