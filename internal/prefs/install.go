package prefs

import (
	"time"

	"github.com/mapforge/mapforge/internal/prefs/registry"
)

// Number of runs after which the donation dialog may appear.
const donationDialogRunCount = 7

// FirstRun returns the date the application first ran, or the zero time
// when unknown.
func (p *Prefs) FirstRun() time.Time {
	return p.getDate("install.firstRun")
}

// RunCount returns the number of times the application has started.
func (p *Prefs) RunCount() int {
	return p.getIntOr("install.runCount", 0)
}

// IsSupporter reports whether the user marked themselves as a supporter.
func (p *Prefs) IsSupporter() bool {
	return p.getBoolOr("install.isSupporter", false)
}

// SetSupporter records whether the user is a supporter.
func (p *Prefs) SetSupporter(v bool) error {
	return p.Set("install.isSupporter", v)
}

// CheckForUpdates reports whether automatic update checks are enabled.
func (p *Prefs) CheckForUpdates() bool {
	return p.getBoolOr("install.checkForUpdates", true)
}

// SetCheckForUpdates sets whether automatic update checks are enabled.
func (p *Prefs) SetCheckForUpdates(v bool) error {
	return p.Set("install.checkForUpdates", v)
}

// DisplayNews reports whether the news feed is shown.
func (p *Prefs) DisplayNews() bool {
	return p.getBoolOr("install.displayNews", true)
}

// SetDisplayNews sets whether the news feed is shown.
func (p *Prefs) SetDisplayNews(v bool) error {
	return p.Set("install.displayNews", v)
}

// DonationDialogTime returns the earliest date the donation reminder may
// appear, or the zero time when not scheduled.
func (p *Prefs) DonationDialogTime() time.Time {
	return p.getDate("install.donationDialogTime")
}

// SetDonationDialogTime schedules the next donation reminder.
func (p *Prefs) SetDonationDialogTime(date time.Time) error {
	return p.Set("install.donationDialogTime", date.Format(registry.DateLayout))
}

// ShouldShowDonationDialog reports whether the donation reminder is due:
// the user is not a supporter, the application has run enough times, and
// the scheduled date has passed.
func (p *Prefs) ShouldShowDonationDialog() bool {
	if p.IsSupporter() {
		return false
	}
	if p.RunCount() < donationDialogRunCount {
		return false
	}

	dialogTime := p.DonationDialogTime()
	if dialogTime.IsZero() {
		return false
	}

	return !dialogTime.After(today(p.now()))
}

// trackRun records application usage during startup. It renames the
// retired patreonDialogTime key, records the first run date, schedules
// the donation reminder, and increments the run count.
func (p *Prefs) trackRun() {
	// The reminder key used to be named after a specific platform.
	// The legacy value wins over any value already stored under the
	// new key.
	if p.Contains("install.patreonDialogTime") {
		if v, err := p.GetString("install.patreonDialogTime"); err == nil {
			_ = p.Set("install.donationDialogTime", v)
		}
		_ = p.Remove("install.patreonDialogTime")
	}

	now := today(p.now())

	firstRun := p.FirstRun()
	if firstRun.IsZero() {
		firstRun = now
		_ = p.Set("install.firstRun", firstRun.Format(registry.DateLayout))
	}

	if p.DonationDialogTime().IsZero() {
		dialogTime := firstRun.AddDate(0, 1, 0)
		if !dialogTime.After(now) {
			dialogTime = now.AddDate(0, 0, 2)
		}
		_ = p.SetDonationDialogTime(dialogTime)
	}

	_ = p.Set("install.runCount", p.RunCount()+1)
}

// getDate reads a date setting, returning the zero time for missing or
// malformed values.
func (p *Prefs) getDate(path string) time.Time {
	s := p.getStringOr(path, "")
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(registry.DateLayout, s)
	if err != nil {
		p.recordConfigError(path, err)
		return time.Time{}
	}
	return t
}

// today truncates a time to its date in UTC.
func today(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
