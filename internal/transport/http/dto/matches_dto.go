package dto

import "time"

type MatchListItem struct {
	ID              int64     `json:"id"`
	CounterpartID   int64     `json:"counterpart_id"`
	DisplayName     string    `json:"display_name"`
	Age             int       `json:"age"`
	ExperienceLevel string    `json:"experience_level"`
	CreatedAt       time.Time `json:"created_at"`
}

type MatchListResponse struct {
	Items []MatchListItem `json:"items"`
}
