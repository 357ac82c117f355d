package models

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/julianstephens/fieldplan/internal/constants"
	"github.com/julianstephens/fieldplan/internal/utils"
)

// Settings represents application-wide settings
type Settings struct {
	ColumnWidth  int    `json:"column_width"`  // terminal cells per day column in the chart
	UpcomingDays int    `json:"upcoming_days"` // horizon for the upcoming activities list
	Timezone     string `json:"timezone"`      // IANA timezone name, or "Local" for the system timezone
	DefaultKind  string `json:"default_kind"`  // activity kind preselected by forms
}

// DefaultSettings returns the settings written by init.
func DefaultSettings() Settings {
	return Settings{
		ColumnWidth:  constants.DefaultColumnWidth,
		UpcomingDays: constants.DefaultUpcomingDays,
		Timezone:     constants.DefaultTimezone,
		DefaultKind:  constants.DefaultKind,
	}
}

// Validate checks that settings are within supported ranges.
func (s Settings) Validate() error {
	if s.ColumnWidth < constants.MinColumnWidth || s.ColumnWidth > constants.MaxColumnWidth {
		return fmt.Errorf("column width must be between %d and %d", constants.MinColumnWidth, constants.MaxColumnWidth)
	}
	if s.UpcomingDays < 1 {
		return fmt.Errorf("upcoming days must be at least 1")
	}
	if !utils.ValidateTimezone(s.Timezone) {
		return fmt.Errorf("invalid timezone: %s", s.Timezone)
	}
	return nil
}

// Keys under which settings are persisted.
const (
	SettingColumnWidth  = "column_width"
	SettingUpcomingDays = "upcoming_days"
	SettingTimezone     = "timezone"
	SettingDefaultKind  = "default_kind"
)

// SettingKeys lists every persisted key in display order.
var SettingKeys = []string{SettingColumnWidth, SettingUpcomingDays, SettingTimezone, SettingDefaultKind}

var ErrUnknownSetting = errors.New("unknown setting")

// Value returns the persisted string form of one setting.
func (s Settings) Value(key string) (string, error) {
	switch key {
	case SettingColumnWidth:
		return strconv.Itoa(s.ColumnWidth), nil
	case SettingUpcomingDays:
		return strconv.Itoa(s.UpcomingDays), nil
	case SettingTimezone:
		return s.Timezone, nil
	case SettingDefaultKind:
		return s.DefaultKind, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownSetting, key)
}

// ApplySetting parses value into the field named by key.
func ApplySetting(s *Settings, key, value string) error {
	switch key {
	case SettingColumnWidth, SettingUpcomingDays:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", key, err)
		}
		if key == SettingColumnWidth {
			s.ColumnWidth = n
		} else {
			s.UpcomingDays = n
		}
	case SettingTimezone:
		s.Timezone = value
	case SettingDefaultKind:
		s.DefaultKind = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	return nil
}
