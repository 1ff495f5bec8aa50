package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"

	"neurocampus/backend/internal/ai"
	"neurocampus/backend/internal/assignment"
	"neurocampus/backend/internal/authz"
	"neurocampus/backend/internal/course"
	"neurocampus/backend/internal/forum"
	"neurocampus/backend/internal/gateway"
	"neurocampus/backend/internal/grading"
	"neurocampus/backend/internal/shared"
	"neurocampus/backend/internal/storage"
	"neurocampus/backend/internal/submission"
)

const testJWTSecret = "integration-test-secret"

// scriptedCompleter lets each test control the provider's next response.
type scriptedCompleter struct {
	response string
	err      error
}

func (s *scriptedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

// TestEnv holds the running components for an integration test.
type TestEnv struct {
	Router    http.Handler
	DB        *mongo.Database
	Completer *scriptedCompleter
}

// setupGatewayTestEnv wires the full stack against a live MongoDB. Tests are
// skipped when MONGO_URI is not set.
func setupGatewayTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		t.Skip("MONGO_URI not set, skipping integration tests")
	}

	cfg := &shared.MongoConfig{
		URI:            mongoURI,
		Database:       "neurocampus_test",
		ConnectTimeout: 30 * time.Second,
		MaxPoolSize:    10,
		MinPoolSize:    1,
		MaxIdleTime:    60 * time.Second,
	}
	client, db, err := shared.ConnectMongoDB(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	// Clean DB before starting
	if err := db.Drop(context.Background()); err != nil {
		t.Fatalf("Failed to drop test database: %v", err)
	}
	t.Cleanup(func() {
		db.Drop(context.Background())
		shared.DisconnectMongoDB(client)
	})

	completer := &scriptedCompleter{}
	provider := ai.Configured(completer)

	store, err := storage.NewDiskStore(t.TempDir(), 10*1000*1000)
	if err != nil {
		t.Fatalf("Failed to create upload store: %v", err)
	}

	resolver := authz.NewResolver(db)
	svcs := &gateway.Services{
		Courses:     course.NewService(client, db),
		Assignments: assignment.NewService(db, resolver),
		Submissions: submission.NewService(client, db, resolver),
		Grading:     grading.NewOrchestrator(db, resolver, provider),
		Forum:       forum.NewService(db),
		AI:          ai.NewService(provider, db),
		Store:       store,
	}

	appCfg := &shared.AppConfig{
		ServiceName: "neurocampus-test",
		HTTPPort:    "0",
		Security:    shared.SecurityConfig{JWTSecret: testJWTSecret},
		Uploads:     shared.UploadConfig{Dir: store.Dir(), MaxSizeBytes: 10 * 1000 * 1000},
		CORS: shared.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		},
	}

	return &TestEnv{
		Router:    gateway.SetupRoutes(appCfg, svcs),
		DB:        db,
		Completer: completer,
	}
}

// tokenFor signs a bearer token for the given user.
func tokenFor(t *testing.T, userID, name, email, role string) string {
	t.Helper()

	claims := gateway.Claims{
		UserID: userID,
		Name:   name,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return signed
}

// doJSON performs a JSON request against the router and decodes the response
// into a generic map.
func doJSON(t *testing.T, env *TestEnv, method, path, token string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("Invalid JSON response (%d): %s", rec.Code, rec.Body.String())
		}
	}
	return rec.Code, decoded
}
