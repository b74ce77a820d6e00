package repos

import (
	"farmstand/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type NotificationRepo struct{ db *sqlx.DB }

func NewNotificationRepo(db *sqlx.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// insertNotification is the only write path into notifications; it runs
// inside the producing transaction (order placement, status transition,
// favorite) so a notification never exists without its cause.
func insertNotification(tx *sqlx.Tx, recipientID, typ, title, message, meta string) error {
	_, err := tx.Exec(`
	  INSERT INTO notifications(id,recipient_id,type,title,message,meta)
	  VALUES(?,?,?,?,?,?)
	`, uuid.NewString(), recipientID, typ, title, message, meta)
	return err
}

func (r *NotificationRepo) ListFor(callerID string) ([]domain.Notification, error) {
	out := []domain.Notification{}
	err := r.db.Select(&out, `
	  SELECT id, recipient_id, type, title,
	         COALESCE(message,'') AS message, COALESCE(meta,'') AS meta,
	         is_read, created_at
	  FROM notifications
	  WHERE recipient_id=?
	  ORDER BY datetime(created_at) DESC, id
	`, callerID)
	return out, err
}

func (r *NotificationRepo) MarkRead(callerID, notificationID string) (bool, error) {
	res, err := r.db.Exec(`UPDATE notifications SET is_read=1 WHERE id=? AND recipient_id=?`,
		notificationID, callerID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
