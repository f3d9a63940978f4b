package services

import (
	"context"

	"github.com/cpenseur/CSIT314-Null/internal/db/repositories"
	gormModels "github.com/cpenseur/CSIT314-Null/internal/models/gorm"
)

// ChatService gates the per-request chat. Posting is only legal while
// the request is ACTIVE; history stays readable in any state.
type ChatService struct {
	messages *repositories.MessageRepository
	requests *repositories.RequestRepository
}

// NewChatService creates a new chat service
func NewChatService(messages *repositories.MessageRepository, requests *repositories.RequestRepository) *ChatService {
	return &ChatService{
		messages: messages,
		requests: requests,
	}
}

// Post appends a chat line to an ACTIVE request.
func (svc *ChatService) Post(ctx context.Context, requestID, senderID, text string) (*gormModels.Message, error) {
	req, err := svc.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.IsActive() {
		return nil, ErrRequestNotActive
	}

	msg := &gormModels.Message{
		RequestID: requestID,
		SenderID:  senderID,
		Text:      text,
	}
	if err := svc.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// History returns a request's chat in send order, whatever state the
// request is in now.
func (svc *ChatService) History(ctx context.Context, requestID string) ([]gormModels.Message, error) {
	if _, err := svc.requests.GetByID(ctx, requestID); err != nil {
		return nil, err
	}
	return svc.messages.ListByRequest(ctx, requestID)
}
