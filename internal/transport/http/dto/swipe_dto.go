package dto

import "time"

type SwipeRequest struct {
	TargetID  int64  `json:"target_id"`
	Direction string `json:"direction"`
}

type SwipeResponse struct {
	OK           bool           `json:"ok"`
	MatchCreated bool           `json:"match_created"`
	Match        *MatchResponse `json:"match,omitempty"`
}

type SwipeStatusResponse struct {
	TargetID  int64     `json:"target_id"`
	Direction string    `json:"direction"`
	CreatedAt time.Time `json:"created_at"`
}

type MatchResponse struct {
	ID        int64     `json:"id"`
	UserAID   int64     `json:"user_a_id"`
	UserBID   int64     `json:"user_b_id"`
	CreatedAt time.Time `json:"created_at"`
}
