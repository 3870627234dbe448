package assistant

import (
	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/assistant"
)

// CreateSessionRequest opens a chat about one product
type CreateSessionRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// SendMessageRequest carries one user message
type SendMessageRequest struct {
	Message string `json:"message"`
}

// SessionResponse is a snapshot of a chat session
type SessionResponse struct {
	ID           string              `json:"id"`
	ProductID    string              `json:"productId"`
	ProductTitle string              `json:"productTitle"`
	Status       assistant.Status    `json:"status"`
	Messages     []assistant.Message `json:"messages"`
}

// SendMessageResponse is the outcome of a send. Reply is nil when the
// message was blank and nothing was appended.
type SendMessageResponse struct {
	Reply   *assistant.Message `json:"reply,omitempty"`
	Session SessionResponse    `json:"session"`
}

// ToSessionResponse snapshots a session
func ToSessionResponse(s *assistant.Session) SessionResponse {
	product := s.Product()
	return SessionResponse{
		ID:           s.ID(),
		ProductID:    product.ProductID,
		ProductTitle: product.ProductTitle,
		Status:       s.Status(),
		Messages:     s.Messages(),
	}
}
