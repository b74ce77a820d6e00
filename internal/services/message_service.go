package services

import (
	"errors"

	"farmstand/internal/authz"
	"farmstand/internal/domain"
	"farmstand/internal/repos"

	"github.com/google/uuid"
)

var ErrSelfMessage = errors.New("cannot message yourself")

type MessageService struct {
	Messages *repos.MessageRepo
}

func NewMessageService(messages *repos.MessageRepo) *MessageService {
	return &MessageService{Messages: messages}
}

func (s *MessageService) Send(caller authz.Caller, recipientID, content string) (*domain.Message, error) {
	if caller.Anonymous() {
		return nil, authz.ErrDenied
	}
	if recipientID == caller.ID {
		return nil, ErrSelfMessage
	}
	m := &domain.Message{
		ID:          uuid.NewString(),
		SenderID:    caller.ID,
		RecipientID: recipientID,
		Content:     content,
	}
	if err := s.Messages.Insert(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MessageService) Thread(caller authz.Caller, otherID string) ([]domain.Message, error) {
	if caller.Anonymous() {
		return nil, authz.ErrDenied
	}
	return s.Messages.Thread(caller.ID, otherID)
}

func (s *MessageService) Inbox(caller authz.Caller) ([]domain.Message, error) {
	if caller.Anonymous() {
		return nil, authz.ErrDenied
	}
	return s.Messages.Inbox(caller.ID)
}

func (s *MessageService) MarkRead(caller authz.Caller, messageID string) error {
	ok, err := s.Messages.MarkRead(caller.ID, messageID)
	if err != nil {
		return err
	}
	if !ok {
		return authz.ErrDenied
	}
	return nil
}
