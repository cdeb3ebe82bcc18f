package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sonoda80/coachlog/internal/domain"
	"github.com/sonoda80/coachlog/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrEmptyMessage = errors.New("message text cannot be empty")
	ErrUnknownUser  = errors.New("unknown user")
	ErrUnknownPeer  = errors.New("unknown peer")
)

// Broadcaster fans a feed event out to a user's open viewers. The websocket
// hub implements it; a nil-safe no-op keeps the services testable without one.
type Broadcaster interface {
	Broadcast(userID string, event any)
}

// FeedEvent is the envelope pushed over live subscriptions.
type FeedEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ChatService is the conversation feed between exactly two participants.
type ChatService interface {
	// Send appends a message from author to peer and pushes it to both
	// participants' live subscriptions.
	Send(ctx context.Context, authorID, peerID primitive.ObjectID, text string) (*domain.Message, error)
	// History returns the viewer's conversation with the counterpart,
	// ascending by createdAt.
	History(ctx context.Context, viewerID, counterpartID primitive.ObjectID) ([]domain.Message, error)
}

type chatService struct {
	userRepo repository.UserRepository
	msgRepo  repository.MessageRepository
	feed     Broadcaster
}

// NewChatService creates a new instance of chatService. feed may be nil when
// no live delivery is wanted.
func NewChatService(userRepo repository.UserRepository, msgRepo repository.MessageRepository, feed Broadcaster) ChatService {
	return &chatService{
		userRepo: userRepo,
		msgRepo:  msgRepo,
		feed:     feed,
	}
}

func (s *chatService) Send(ctx context.Context, authorID, peerID primitive.ObjectID, text string) (*domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, peerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownPeer
		}
		return nil, err
	}

	msg := &domain.Message{
		Text:         text,
		CreatedAt:    time.Now().UTC(),
		UserID:       authorID,
		UserEmail:    author.Email,
		PeerID:       peerID,
		Participants: []primitive.ObjectID{authorID, peerID},
	}

	id, err := s.msgRepo.Append(ctx, msg)
	if err != nil {
		return nil, err
	}
	msg.ID = id

	s.push(authorID, msg)
	s.push(peerID, msg)

	return msg, nil
}

func (s *chatService) History(ctx context.Context, viewerID, counterpartID primitive.ObjectID) ([]domain.Message, error) {
	// The stored query is broader than the view: every conversation the
	// viewer participates in. The counterpart filter happens here.
	msgs, err := s.msgRepo.GetByParticipant(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return FilterConversation(msgs, viewerID, counterpartID), nil
}

func (s *chatService) push(userID primitive.ObjectID, msg *domain.Message) {
	if s.feed == nil {
		return
	}
	s.feed.Broadcast(userID.Hex(), FeedEvent{Type: "message", Payload: msg})
}

// FilterConversation retains only messages between viewer and counterpart, in
// either direction, preserving input order.
func FilterConversation(msgs []domain.Message, viewer, counterpart primitive.ObjectID) []domain.Message {
	out := make([]domain.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Between(viewer, counterpart) {
			out = append(out, m)
		}
	}
	return out
}
