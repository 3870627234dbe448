package handler

import (
	"github.com/gin-gonic/gin"

	assistantapp "github.com/ipiccardo/item-detail-ML-sub001/internal/application/assistant"
	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/catalog"
)

// ChatHandler exposes the product assistant chat sessions
type ChatHandler struct {
	BaseHandler
	sessionService *assistantapp.SessionService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(sessionService *assistantapp.SessionService) *ChatHandler {
	return &ChatHandler{
		sessionService: sessionService,
	}
}

// RegisterRoutes registers all chat routes
func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/chat/sessions")
	sessions.POST("", h.CreateSession)
	sessions.GET("/:id", h.GetSession)
	sessions.DELETE("/:id", h.DeleteSession)
	sessions.POST("/:id/messages", h.SendMessage)
}

// CreateSession godoc
// @Summary      Open a chat session
// @Description  Starts a conversation about one product, seeded with the assistant greeting
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        request body assistantapp.CreateSessionRequest true "Product to talk about"
// @Success      201 {object} dto.Response{data=assistantapp.SessionResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      429 {object} dto.Response
// @Router       /chat/sessions [post]
func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req assistantapp.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, catalog.ErrProductIDRequired.Message)
		return
	}

	session, err := h.sessionService.Create(c.Request.Context(), req.ProductID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, session)
}

// GetSession godoc
// @Summary      Get a chat session
// @Tags         chat
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.Response{data=assistantapp.SessionResponse}
// @Failure      404 {object} dto.Response
// @Router       /chat/sessions/{id} [get]
func (h *ChatHandler) GetSession(c *gin.Context) {
	session, err := h.sessionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// SendMessage godoc
// @Summary      Send a chat message
// @Description  Appends the user message and the assistant reply. A blank message changes nothing.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        id      path string true "Session ID"
// @Param        request body assistantapp.SendMessageRequest true "User message"
// @Success      200 {object} dto.Response{data=assistantapp.SendMessageResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Router       /chat/sessions/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req assistantapp.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.sessionService.Send(c.Request.Context(), c.Param("id"), req.Message)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// DeleteSession godoc
// @Summary      Close a chat session
// @Tags         chat
// @Param        id path string true "Session ID"
// @Success      204
// @Failure      404 {object} dto.Response
// @Router       /chat/sessions/{id} [delete]
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	if err := h.sessionService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
