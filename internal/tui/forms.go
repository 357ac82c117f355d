package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/fieldplan/internal/constants"
	"github.com/julianstephens/fieldplan/internal/models"
	"github.com/julianstephens/fieldplan/internal/utils"
)

type ActivityFormModel struct {
	Crop     string
	Kind     string
	Start    string
	Duration string
	Field    string
	Season   string
}

type SettingsFormModel struct {
	ColumnWidth  string
	UpcomingDays string
	Timezone     string
	DefaultKind  string
}

func newActivityFormModel(a models.Activity) *ActivityFormModel {
	return &ActivityFormModel{
		Crop:     a.SubjectName,
		Kind:     string(a.Kind),
		Start:    a.StartDate,
		Duration: strconv.Itoa(a.DurationDays),
		Field:    a.FieldName,
		Season:   a.Season,
	}
}

// Apply copies the form onto a and re-derives its end date.
func (fm *ActivityFormModel) Apply(a models.Activity) (models.Activity, error) {
	days, err := strconv.Atoi(strings.TrimSpace(fm.Duration))
	if err != nil {
		return a, fmt.Errorf("%w: %q is not a number of days", models.ErrInvalidDuration, fm.Duration)
	}
	a.SubjectName = strings.TrimSpace(fm.Crop)
	a.Kind = models.ActivityKind(strings.TrimSpace(fm.Kind))
	a.StartDate = strings.TrimSpace(fm.Start)
	a.DurationDays = days
	a.FieldName = strings.TrimSpace(fm.Field)
	a.Season = strings.TrimSpace(fm.Season)
	if err := a.RecomputeEnd(); err != nil {
		return a, err
	}
	return a, a.Validate()
}

func kindOptions(current string) []huh.Option[string] {
	kinds := constants.ActivityKinds
	if current != "" && !slices.Contains(kinds, current) {
		kinds = append([]string{current}, kinds...)
	}
	return huh.NewOptions(kinds...)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// NewActivityForm creates a form for adding or editing an activity
func NewActivityForm(fm *ActivityFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Crop").
				Value(&fm.Crop).
				Validate(required("crop")),
			huh.NewSelect[string]().
				Title("Activity").
				Options(kindOptions(fm.Kind)...).
				Value(&fm.Kind),
			huh.NewInput().
				Title("Start date (YYYY-MM-DD)").
				Value(&fm.Start).
				Validate(func(s string) error {
					if !utils.ValidateDateFormat(strings.TrimSpace(s)) {
						return fmt.Errorf("expected YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewInput().
				Title("Duration (days)").
				Value(&fm.Duration).
				Validate(func(s string) error {
					i, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return err
					}
					if i <= 0 {
						return fmt.Errorf("duration must be a positive number of days")
					}
					return nil
				}),
			huh.NewInput().
				Title("Field").
				Value(&fm.Field),
			huh.NewInput().
				Title("Season").
				Value(&fm.Season),
		),
	)
}

func newSettingsFormModel(s models.Settings) *SettingsFormModel {
	return &SettingsFormModel{
		ColumnWidth:  strconv.Itoa(s.ColumnWidth),
		UpcomingDays: strconv.Itoa(s.UpcomingDays),
		Timezone:     s.Timezone,
		DefaultKind:  s.DefaultKind,
	}
}

// Apply parses the form onto a copy of s.
func (fm *SettingsFormModel) Apply(s models.Settings) (models.Settings, error) {
	values := map[string]string{
		models.SettingColumnWidth:  fm.ColumnWidth,
		models.SettingUpcomingDays: fm.UpcomingDays,
		models.SettingTimezone:     fm.Timezone,
		models.SettingDefaultKind:  fm.DefaultKind,
	}
	for _, key := range models.SettingKeys {
		if err := models.ApplySetting(&s, key, strings.TrimSpace(values[key])); err != nil {
			return s, err
		}
	}
	return s, s.Validate()
}

func NewSettingsForm(fm *SettingsFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Column width (cells per day)").
				Description(fmt.Sprintf("Between %d and %d", constants.MinColumnWidth, constants.MaxColumnWidth)).
				Value(&fm.ColumnWidth).
				Validate(func(s string) error {
					i, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return err
					}
					if i < constants.MinColumnWidth || i > constants.MaxColumnWidth {
						return fmt.Errorf("must be between %d and %d", constants.MinColumnWidth, constants.MaxColumnWidth)
					}
					return nil
				}),
			huh.NewInput().
				Title("Upcoming look-ahead (days)").
				Value(&fm.UpcomingDays).
				Validate(func(s string) error {
					i, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return err
					}
					if i < 1 {
						return fmt.Errorf("must be at least 1")
					}
					return nil
				}),
			huh.NewInput().
				Title("Timezone").
				Description("IANA name such as Africa/Nairobi, or Local").
				Value(&fm.Timezone).
				Validate(func(s string) error {
					if !utils.ValidateTimezone(strings.TrimSpace(s)) {
						return fmt.Errorf("unknown timezone")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Default activity").
				Options(kindOptions(fm.DefaultKind)...).
				Value(&fm.DefaultKind),
		),
	)
}
