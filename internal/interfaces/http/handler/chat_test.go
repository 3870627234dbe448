package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assistantapp "github.com/ipiccardo/item-detail-ML-sub001/internal/application/assistant"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/assistant"
)

type firstSource struct{}

func (firstSource) IntN(int) int { return 0 }

func setupChatRouter(t *testing.T, remote assistant.Remote, cfg assistantapp.Config) *gin.Engine {
	t.Helper()
	svc := assistantapp.NewSessionService(
		newTestRepository(t),
		remote,
		assistant.NewClassifier(firstSource{}),
		cfg,
	)
	r := gin.New()
	NewChatHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, router *gin.Engine) map[string]any {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/v1/chat/sessions", `{"productId":"MLA1"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeMap(t, w)["data"].(map[string]any)
}

func messageTexts(session map[string]any) []string {
	raw := session["messages"].([]any)
	texts := make([]string, 0, len(raw))
	for _, m := range raw {
		texts = append(texts, m.(map[string]any)["text"].(string))
	}
	return texts
}

func TestChatHandler_CreateSession(t *testing.T) {
	router := setupChatRouter(t, nil, assistantapp.DefaultConfig())

	t.Run("seeded with greeting", func(t *testing.T) {
		session := createSession(t, router)

		assert.NotEmpty(t, session["id"])
		assert.Equal(t, "MLA1", session["productId"])
		assert.Equal(t, "Samsung MLA1", session["productTitle"])
		assert.Equal(t, string(assistant.StatusReady), session["status"])
		assert.Equal(t, []string{assistant.GreetingMessage}, messageTexts(session))
	})

	t.Run("missing product id", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/chat/sessions", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Product ID is required", decodeResponse(t, w).Error)
	})

	t.Run("unknown product", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/chat/sessions", `{"productId":"MLA404"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Product not found", decodeResponse(t, w).Error)
	})
}

func TestChatHandler_CreateSession_Limit(t *testing.T) {
	cfg := assistantapp.DefaultConfig()
	cfg.MaxSessions = 1
	router := setupChatRouter(t, nil, cfg)

	createSession(t, router)
	w := doJSON(router, http.MethodPost, "/api/v1/chat/sessions", `{"productId":"MLA2"}`)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "LIMIT_EXCEEDED", resp.Code)
}

func TestChatHandler_SendMessage_RemoteReply(t *testing.T) {
	var got assistant.Turn
	remote := assistant.RemoteFunc(func(_ context.Context, turn assistant.Turn) (string, error) {
		got = turn
		return "Sí, lo tenemos en negro.", nil
	})
	router := setupChatRouter(t, remote, assistantapp.DefaultConfig())
	id := createSession(t, router)["id"].(string)

	w := doJSON(router, http.MethodPost, "/api/v1/chat/sessions/"+id+"/messages", `{"message":"¿Viene en negro?"}`)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeMap(t, w)["data"].(map[string]any)
	reply := data["reply"].(map[string]any)
	assert.Equal(t, "Sí, lo tenemos en negro.", reply["text"])
	assert.Equal(t, string(assistant.AuthorAssistant), reply["author"])
	assert.Equal(t, []string{
		assistant.GreetingMessage,
		"¿Viene en negro?",
		"Sí, lo tenemos en negro.",
	}, messageTexts(data["session"].(map[string]any)))
	assert.Equal(t, "MLA1", got.Product.ProductID)
}

func TestChatHandler_SendMessage_FallbackOnFailure(t *testing.T) {
	remote := assistant.RemoteFunc(func(context.Context, assistant.Turn) (string, error) {
		return "", errors.New("connection refused")
	})
	router := setupChatRouter(t, remote, assistantapp.DefaultConfig())
	id := createSession(t, router)["id"].(string)

	w := doJSON(router, http.MethodPost, "/api/v1/chat/sessions/"+id+"/messages", `{"message":"¿Cuál es el precio?"}`)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeMap(t, w)
	assert.Equal(t, true, resp["success"])
	reply := resp["data"].(map[string]any)["reply"].(map[string]any)
	assert.Equal(t, assistant.ReplyPrice, reply["text"])
}

func TestChatHandler_SendMessage_Blank(t *testing.T) {
	router := setupChatRouter(t, nil, assistantapp.DefaultConfig())
	id := createSession(t, router)["id"].(string)

	w := doJSON(router, http.MethodPost, "/api/v1/chat/sessions/"+id+"/messages", `{"message":"   "}`)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeMap(t, w)["data"].(map[string]any)
	assert.NotContains(t, data, "reply")
	assert.Equal(t, []string{assistant.GreetingMessage}, messageTexts(data["session"].(map[string]any)))
}

func TestChatHandler_SendMessage_InvalidBody(t *testing.T) {
	router := setupChatRouter(t, nil, assistantapp.DefaultConfig())
	id := createSession(t, router)["id"].(string)

	w := doJSON(router, http.MethodPost, "/api/v1/chat/sessions/"+id+"/messages", `not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decodeResponse(t, w).Error)
}

func TestChatHandler_SendMessage_Busy(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	remote := assistant.RemoteFunc(func(context.Context, assistant.Turn) (string, error) {
		close(started)
		<-release
		return "listo", nil
	})
	cfg := assistantapp.DefaultConfig()
	cfg.RemoteTimeout = 5 * time.Second
	router := setupChatRouter(t, remote, cfg)
	id := createSession(t, router)["id"].(string)
	path := "/api/v1/chat/sessions/" + id + "/messages"

	var wg sync.WaitGroup
	var first *httptest.ResponseRecorder
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = doJSON(router, http.MethodPost, path, `{"message":"primera"}`)
	}()
	<-started

	second := doJSON(router, http.MethodPost, path, `{"message":"segunda"}`)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, "Session is awaiting a response", decodeResponse(t, second).Error)

	close(release)
	wg.Wait()
	assert.Equal(t, http.StatusOK, first.Code)

	get := doJSON(router, http.MethodGet, "/api/v1/chat/sessions/"+id, "")
	session := decodeMap(t, get)["data"].(map[string]any)
	assert.Equal(t, []string{assistant.GreetingMessage, "primera", "listo"}, messageTexts(session))
	assert.Equal(t, string(assistant.StatusReady), session["status"])
}

func TestChatHandler_GetAndDeleteSession(t *testing.T) {
	router := setupChatRouter(t, nil, assistantapp.DefaultConfig())
	id := createSession(t, router)["id"].(string)

	w := doJSON(router, http.MethodGet, "/api/v1/chat/sessions/"+id, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodDelete, "/api/v1/chat/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/chat/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Chat session not found", decodeResponse(t, w).Error)

	w = doJSON(router, http.MethodDelete, "/api/v1/chat/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodPost, "/api/v1/chat/sessions/"+id+"/messages", `{"message":"hola"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
