package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/costcast/internal/config"
	"github.com/theirongolddev/costcast/internal/estimate"
	"github.com/theirongolddev/costcast/internal/tui/theme"
)

// EstimateValues holds the raw text of the estimate form fields.
type EstimateValues struct {
	ProjectName string
	Duration    string
	Labor       string
	Material    string
	Equipment   string
	Misc        string
}

// NewEstimateValues pre-fills the form from a breakdown and duration.
func NewEstimateValues(project string, months int, b estimate.Breakdown) EstimateValues {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return EstimateValues{
		ProjectName: project,
		Duration:    strconv.Itoa(months),
		Labor:       f(b.Labor),
		Material:    f(b.Material),
		Equipment:   f(b.Equipment),
		Misc:        f(b.Misc),
	}
}

func validateCost(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return errors.New("enter a number")
	}
	if v < 0 {
		return errors.New("cost cannot be negative")
	}
	return nil
}

func validateDuration(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a whole number of months")
	}
	if n < 1 {
		return errors.New("duration must be at least 1 month")
	}
	return nil
}

// Breakdown parses the four cost fields.
func (v EstimateValues) Breakdown() (estimate.Breakdown, error) {
	var b estimate.Breakdown
	fields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{estimate.CategoryLabor, v.Labor, &b.Labor},
		{estimate.CategoryMaterial, v.Material, &b.Material},
		{estimate.CategoryEquipment, v.Equipment, &b.Equipment},
		{estimate.CategoryMisc, v.Misc, &b.Misc},
	}
	for _, f := range fields {
		if err := validateCost(f.raw); err != nil {
			return b, fmt.Errorf("%w: %s: %v", estimate.ErrInvalidInput, f.name, err)
		}
		*f.dst, _ = strconv.ParseFloat(strings.TrimSpace(f.raw), 64)
	}
	return b, b.Validate()
}

// DurationMonths parses the duration field.
func (v EstimateValues) DurationMonths() (int, error) {
	if err := validateDuration(v.Duration); err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(v.Duration))
}

// NewEstimateForm builds the project and cost input form bound to vals.
func NewEstimateForm(vals *EstimateValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Project Details"),
			huh.NewInput().
				Title("Project Name").
				Placeholder("Enter project name").
				Value(&vals.ProjectName),
			huh.NewInput().
				Title("Project Duration (in months)").
				Value(&vals.Duration).
				Validate(validateDuration),
		),
		huh.NewGroup(
			huh.NewNote().
				Title("Costs"),
			huh.NewInput().Title("Labor Cost").Value(&vals.Labor).Validate(validateCost),
			huh.NewInput().Title("Material Cost").Value(&vals.Material).Validate(validateCost),
			huh.NewInput().Title("Equipment Cost").Value(&vals.Equipment).Validate(validateCost),
			huh.NewInput().Title("Miscellaneous Cost").Value(&vals.Misc).Validate(validateCost),
		),
	).WithTheme(huh.ThemeDracula())
}

// SetupValues holds the answers of the setup form.
type SetupValues struct {
	Currency string
	Horizon  string
	Source   string
	Path     string
	Theme    string
}

// NewSetupValues pre-fills the setup form from cfg.
func NewSetupValues(cfg config.Config) SetupValues {
	return SetupValues{
		Currency: cfg.General.Currency,
		Horizon:  strconv.Itoa(cfg.General.Horizon),
		Source:   cfg.History.Source,
		Path:     cfg.History.Path,
		Theme:    cfg.Appearance.Theme,
	}
}

// Apply copies the answers into cfg and validates the result.
func (v SetupValues) Apply(cfg *config.Config) error {
	h, err := strconv.Atoi(strings.TrimSpace(v.Horizon))
	if err != nil {
		return fmt.Errorf("horizon: %w", err)
	}
	cfg.General.Currency = strings.ToUpper(strings.TrimSpace(v.Currency))
	cfg.General.Horizon = h
	cfg.History.Source = v.Source
	cfg.History.Path = strings.TrimSpace(v.Path)
	cfg.Appearance.Theme = v.Theme
	return cfg.Validate()
}

// NewSetupForm builds the first-run configuration form bound to vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := huh.NewOptions(theme.Names()...)
	sourceOpts := huh.NewOptions(config.SourceSample, config.SourceFile, config.SourceStore, config.SourcePostgres, config.SourceHTTP)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to costcast!").
				Description("Let's set up a few things.\n"),
			huh.NewInput().
				Title("Currency").
				Description("ISO 4217 code used in reports.").
				Value(&vals.Currency).
				Validate(func(s string) error {
					c := config.DefaultConfig()
					c.General.Currency = strings.ToUpper(strings.TrimSpace(s))
					return c.Validate()
				}),
			huh.NewInput().
				Title("Forecast horizon (years)").
				Value(&vals.Horizon).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 0 {
						return errors.New("enter a whole number >= 0")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Cost history source").
				Options(sourceOpts...).
				Value(&vals.Source),
			huh.NewInput().
				Title("History file or store path").
				Description("Used by the file and store sources. Leave blank for the default store.").
				Value(&vals.Path),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeDracula())
}
