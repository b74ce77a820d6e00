package services

import (
	"farmstand/internal/authz"
	"farmstand/internal/domain"
	"farmstand/internal/repos"
)

// NotificationService is read-side only: rows are produced by the order
// and favorite transactions, never through a public write path.
type NotificationService struct {
	Notifications *repos.NotificationRepo
}

func NewNotificationService(notifications *repos.NotificationRepo) *NotificationService {
	return &NotificationService{Notifications: notifications}
}

func (s *NotificationService) List(caller authz.Caller) ([]domain.Notification, error) {
	if caller.Anonymous() {
		return nil, authz.ErrDenied
	}
	return s.Notifications.ListFor(caller.ID)
}

func (s *NotificationService) MarkRead(caller authz.Caller, notificationID string) error {
	ok, err := s.Notifications.MarkRead(caller.ID, notificationID)
	if err != nil {
		return err
	}
	if !ok {
		return authz.ErrDenied
	}
	return nil
}
