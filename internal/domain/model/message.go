package model

import "time"

// Message ordering inside a match is (CreatedAt, ID); ID is the tie-break
// because it is assigned by a single sequence.
type Message struct {
	ID        int64     `json:"id"`
	MatchID   int64     `json:"match_id"`
	SenderID  int64     `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
