package tracker

import (
	"context"
	"errors"
	"net/mail"

	"github.com/sojournii/sojournii/internal/model"
	"github.com/sojournii/sojournii/internal/storage"
	"github.com/sojournii/sojournii/internal/timecalc"
)

// SettingsInput is a partial settings update; nil fields are left unchanged.
type SettingsInput struct {
	Timezone           *string                 `json:"timezone,omitempty"`
	Contract           *model.ContractBaseline `json:"contract,omitempty"`
	ClerkEmail         *string                 `json:"clerk_email,omitempty"`
	NotificationsEmail *string                 `json:"notifications_email,omitempty"`
	RemindersEnabled   *bool                   `json:"reminders_enabled,omitempty"`
}

// Settings returns the user's settings, or the defaults if none are saved.
func (t *Tracker) Settings(ctx context.Context, userID string) (model.Settings, error) {
	if err := checkUser(userID); err != nil {
		return model.Settings{}, err
	}
	st, err := t.store.GetSettings(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return model.Settings{
			UserID:   userID,
			Timezone: t.defaults.Timezone,
			Contract: t.defaults.Contract,
		}, nil
	}
	if err != nil {
		return model.Settings{}, err
	}
	st.UserID = userID
	return st, nil
}

func checkEmail(field, addr string) error {
	if addr == "" {
		return nil
	}
	if _, err := mail.ParseAddress(addr); err != nil {
		return invalid("%s %q is not an e-mail address", field, addr)
	}
	return nil
}

// UpdateSettings applies in on top of the current settings and saves them.
func (t *Tracker) UpdateSettings(ctx context.Context, userID string, in SettingsInput) (model.Settings, error) {
	st, err := t.Settings(ctx, userID)
	if err != nil {
		return model.Settings{}, err
	}
	if in.Timezone != nil {
		if *in.Timezone != "" {
			if _, err := timecalc.LoadLocation(*in.Timezone); err != nil {
				return model.Settings{}, invalid("unknown timezone %q", *in.Timezone)
			}
		}
		st.Timezone = *in.Timezone
	}
	if in.Contract != nil {
		c := *in.Contract
		if c.WeeklyHours < 0 || c.WeeklyMinutes < 0 || c.WeeklyMinutes > 59 || c.Minutes() > 7*24*60 {
			return model.Settings{}, invalid("contract %dh%dm out of range", c.WeeklyHours, c.WeeklyMinutes)
		}
		st.Contract = c
	}
	if in.ClerkEmail != nil {
		if err := checkEmail("clerk email", *in.ClerkEmail); err != nil {
			return model.Settings{}, err
		}
		st.ClerkEmail = *in.ClerkEmail
	}
	if in.NotificationsEmail != nil {
		if err := checkEmail("notifications email", *in.NotificationsEmail); err != nil {
			return model.Settings{}, err
		}
		st.NotificationsEmail = *in.NotificationsEmail
	}
	if in.RemindersEnabled != nil {
		st.RemindersEnabled = *in.RemindersEnabled
	}

	st.UpdatedAt = t.now()
	if err := t.store.SaveSettings(ctx, st); err != nil {
		return model.Settings{}, err
	}
	t.logger.Debug("settings saved", "user", userID, "timezone", st.Timezone)
	return st, nil
}

// ReminderRecipients returns the settings of every user with reminders
// enabled.
func (t *Tracker) ReminderRecipients(ctx context.Context) ([]model.Settings, error) {
	all, err := t.store.ListSettings(ctx)
	if err != nil {
		return nil, err
	}
	var enabled []model.Settings
	for _, st := range all {
		if st.RemindersEnabled {
			enabled = append(enabled, st)
		}
	}
	return enabled, nil
}
