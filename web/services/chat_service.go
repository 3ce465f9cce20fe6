package services

import (
	"context"
	"strings"
	"time"

	"inkchat/backend"
	apperrors "inkchat/errors"
	"inkchat/session"
	"inkchat/web/format"
	"inkchat/web/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatService struct {
	client *backend.Client
	logger *zap.Logger
}

func NewChatService(client *backend.Client, logger *zap.Logger) *ChatService {
	return &ChatService{
		client: client,
		logger: logger,
	}
}

// AskResult carries the two transcript entries produced by a successful
// round trip.
type AskResult struct {
	User      types.Message
	Assistant types.Message
}

// Ask runs one question/answer round trip against the session's active
// document.
//
// The user message is appended before the query is issued, so the question
// is visible while the answer is pending and stays visible if no answer
// arrives. At most one question may be in flight per session; a concurrent
// call is rejected with ErrRequestPending rather than queued. On failure
// the transcript keeps only the user entry and the error is classified as
// rate-limited (HTTP 429) or generic.
func (cs *ChatService) Ask(ctx context.Context, sess *session.State, question string) (*AskResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, apperrors.ErrEmptyQuestion
	}

	documentID := sess.Document()
	if documentID == "" {
		return nil, apperrors.ErrNoDocument
	}

	if !sess.TryBeginRequest() {
		return nil, apperrors.ErrRequestPending
	}
	defer sess.EndRequest()

	userMessage := types.Message{
		ID:        uuid.New().String(),
		Content:   question,
		Sender:    types.SenderUser,
		Timestamp: time.Now(),
	}
	sess.Append(userMessage)

	result, err := cs.client.Query(ctx, documentID, question)
	if err != nil {
		if apperrors.IsRateLimited(err) {
			cs.logger.Warn("Query rate limited",
				zap.String("document", documentID),
				zap.String("session_id", sess.ID.String()))
		} else {
			cs.logger.Error("Query failed",
				zap.Error(err),
				zap.String("document", documentID),
				zap.String("session_id", sess.ID.String()))
		}
		return nil, err
	}

	// Completion time, not request time; transcript order is append order.
	assistantMessage := types.Message{
		ID:        uuid.New().String(),
		Content:   result.Answer + format.RelevantPagesTrailer(result.RelevantPages),
		Sender:    types.SenderAssistant,
		Timestamp: time.Now(),
	}
	sess.Append(assistantMessage)

	return &AskResult{User: userMessage, Assistant: assistantMessage}, nil
}
