package model

import "time"

// Match holds the canonical pair orientation: UserAID < UserBID.
type Match struct {
	ID        int64     `json:"id"`
	UserAID   int64     `json:"user_a_id"`
	UserBID   int64     `json:"user_b_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Other returns the counterparty for userID, or 0 when userID is not a participant.
func (m Match) Other(userID int64) int64 {
	switch userID {
	case m.UserAID:
		return m.UserBID
	case m.UserBID:
		return m.UserAID
	default:
		return 0
	}
}

// HasParticipant reports whether userID is one of the two matched users.
func (m Match) HasParticipant(userID int64) bool {
	return userID == m.UserAID || userID == m.UserBID
}
