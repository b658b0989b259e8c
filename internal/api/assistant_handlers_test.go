package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fitvoice/internal/conversation"

	"github.com/gin-gonic/gin"
)

func testEngine() *conversation.Engine {
	return conversation.NewEngine(conversation.NewMemoryStore(), nil, nil)
}

func authedRouter(userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	})
	return r
}

func TestConverseHandler_Greeting(t *testing.T) {
	engine := testEngine()
	r := authedRouter(7)
	r.POST("/assistant/converse", ConverseHandler(engine))

	payload := ConverseRequest{Topic: "diet", Text: "hello"}
	b, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/assistant/converse", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	if !contains(w.Body.String(), "nutrition assistant") {
		t.Errorf("expected greeting reply, got: %s", w.Body.String())
	}
}

func TestConverseHandler_UnknownTopic(t *testing.T) {
	engine := testEngine()
	r := authedRouter(7)
	r.POST("/assistant/converse", ConverseHandler(engine))

	b, _ := json.Marshal(ConverseRequest{Topic: "sleep", Text: "hello"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/assistant/converse", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown topic, got %d: %s", w.Code, w.Body.String())
	}
}

func TestConverseHandler_Unauthenticated(t *testing.T) {
	engine := testEngine()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/assistant/converse", ConverseHandler(engine))

	b, _ := json.Marshal(ConverseRequest{Topic: "diet", Text: "hello"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/assistant/converse", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without user context, got %d: %s", w.Code, w.Body.String())
	}
}

func TestResetConversationHandler(t *testing.T) {
	engine := testEngine()
	r := authedRouter(9)
	r.POST("/assistant/converse", ConverseHandler(engine))
	r.POST("/assistant/reset", ResetConversationHandler(engine))

	// Advance the conversation past the greeting.
	for _, text := range []string{"hi", "yes"} {
		b, _ := json.Marshal(ConverseRequest{Topic: "diet", Text: text})
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/assistant/converse", bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("converse failed: %d %s", w.Code, w.Body.String())
		}
	}

	b, _ := json.Marshal(ResetRequest{Topic: "diet"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/assistant/reset", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK for reset, got %d: %s", w.Code, w.Body.String())
	}

	// After reset the engine greets from scratch again.
	b2, _ := json.Marshal(ConverseRequest{Topic: "diet", Text: "hi"})
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest("POST", "/assistant/converse", bytes.NewReader(b2))
	req2.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w2, req2)
	if !contains(w2.Body.String(), "nutrition assistant") {
		t.Errorf("expected fresh greeting after reset, got: %s", w2.Body.String())
	}
}

func TestAnswersHandler(t *testing.T) {
	engine := testEngine()
	r := authedRouter(11)
	r.POST("/assistant/converse", ConverseHandler(engine))
	r.GET("/assistant/answers", AnswersHandler(engine))

	// Greet, confirm, then answer the first question.
	for _, text := range []string{"hi", "yes", "25"} {
		b, _ := json.Marshal(ConverseRequest{Topic: "diet", Text: text})
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/assistant/converse", bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("converse failed: %d %s", w.Code, w.Body.String())
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/assistant/answers?topic=diet", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	if !contains(w.Body.String(), `"Q0":"25.0"`) {
		t.Errorf("expected recorded first answer, got: %s", w.Body.String())
	}
}

func TestCreateFeedbackHandler(t *testing.T) {
	setupUserDB(t)
	resetUserTable(t)
	u := seedUser(t, "fbuser", "user")
	r := authedRouter(u.ID)
	r.POST("/feedback", CreateFeedbackHandler())

	b, _ := json.Marshal(FeedbackRequest{Message: "the diet plan helped a lot"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/feedback", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	if !contains(w.Body.String(), "new") {
		t.Errorf("expected new feedback status, got: %s", w.Body.String())
	}
}

func TestCreateFeedbackHandler_MissingMessage(t *testing.T) {
	setupUserDB(t)
	resetUserTable(t)
	u := seedUser(t, "fbuser2", "user")
	r := authedRouter(u.ID)
	r.POST("/feedback", CreateFeedbackHandler())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/feedback", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty message, got %d: %s", w.Code, w.Body.String())
	}
}
