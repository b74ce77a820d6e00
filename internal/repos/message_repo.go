package repos

import (
	"farmstand/internal/domain"

	"github.com/jmoiron/sqlx"
)

type MessageRepo struct{ db *sqlx.DB }

func NewMessageRepo(db *sqlx.DB) *MessageRepo { return &MessageRepo{db: db} }

// Insert verifies the recipient before writing, so a dangling id reads
// like a missing row instead of surfacing a driver constraint error.
func (r *MessageRepo) Insert(m *domain.Message) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	if err := tx.Get(&one, `SELECT 1 FROM users WHERE id=?`, m.RecipientID); err != nil {
		return err // sql.ErrNoRows: unknown recipient
	}
	if _, err := tx.Exec(`
	  INSERT INTO messages(id,sender_id,recipient_id,content)
	  VALUES(?,?,?,?)
	`, m.ID, m.SenderID, m.RecipientID, m.Content); err != nil {
		return err
	}
	return tx.Commit()
}

// Thread returns the conversation between the caller and another user.
// The caller only ever sees rows they sent or received.
func (r *MessageRepo) Thread(callerID, otherID string) ([]domain.Message, error) {
	out := []domain.Message{}
	err := r.db.Select(&out, `
	  SELECT id, sender_id, recipient_id, content, is_read, created_at
	  FROM messages
	  WHERE (sender_id=? AND recipient_id=?) OR (sender_id=? AND recipient_id=?)
	  ORDER BY datetime(created_at), id
	`, callerID, otherID, otherID, callerID)
	return out, err
}

// Inbox lists messages addressed to the caller, newest first.
func (r *MessageRepo) Inbox(callerID string) ([]domain.Message, error) {
	out := []domain.Message{}
	err := r.db.Select(&out, `
	  SELECT id, sender_id, recipient_id, content, is_read, created_at
	  FROM messages
	  WHERE recipient_id=?
	  ORDER BY datetime(created_at) DESC, id
	`, callerID)
	return out, err
}

// MarkRead flips the read flag; only the recipient's WHERE match can do it.
func (r *MessageRepo) MarkRead(callerID, messageID string) (bool, error) {
	res, err := r.db.Exec(`UPDATE messages SET is_read=1 WHERE id=? AND recipient_id=?`,
		messageID, callerID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
