package model

import "time"

// ContractBaseline is the user's contracted weekly working time.
type ContractBaseline struct {
	WeeklyHours   int `json:"weekly_hours" yaml:"weekly_hours"`
	WeeklyMinutes int `json:"weekly_minutes" yaml:"weekly_minutes"`
}

// Minutes returns the baseline in minutes.
func (c ContractBaseline) Minutes() int {
	return c.WeeklyHours*60 + c.WeeklyMinutes
}

// Settings holds per-user account configuration.
type Settings struct {
	UserID   string           `json:"user_id" yaml:"user_id"`
	Timezone string           `json:"timezone" yaml:"timezone"`
	Contract ContractBaseline `json:"contract" yaml:"contract"`

	// ClerkEmail is the address known to the identity provider.
	ClerkEmail string `json:"clerk_email" yaml:"clerk_email"`
	// NotificationsEmail is an optional address dedicated to reminders.
	NotificationsEmail string `json:"notifications_email" yaml:"notifications_email"`

	RemindersEnabled bool      `json:"reminders_enabled" yaml:"reminders_enabled"`
	UpdatedAt        time.Time `json:"updated_at" yaml:"updated_at"`
}
