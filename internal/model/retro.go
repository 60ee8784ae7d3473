package model

import "time"

// Retrospective is a user's reflection on one Monday..Sunday week.
type Retrospective struct {
	UserID      string    `json:"user_id" yaml:"user_id"`
	WeekStart   string    `json:"week_start" yaml:"week_start"`
	WeekEnd     string    `json:"week_end" yaml:"week_end"`
	WentWell    string    `json:"went_well" yaml:"went_well"`
	ToImprove   string    `json:"to_improve" yaml:"to_improve"`
	ActionItems []string  `json:"action_items" yaml:"action_items"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}
