package model

import "time"

type Profile struct {
	UserID          int64     `json:"user_id"`
	DisplayName     string    `json:"display_name"`
	Age             int       `json:"age"`
	Bio             string    `json:"bio"`
	ExperienceLevel string    `json:"experience_level"`
	WeightClass     string    `json:"weight_class"`
	GymClub         string    `json:"gym_club"`
	SparringStyles  []string  `json:"sparring_styles"`
	Available       bool      `json:"available"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
