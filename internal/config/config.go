package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"prenota/internal/timeslot"
)

// ValidationSettings is the administrator-editable rule set for booking
// validation. Inconsistent values (for example min duration above max
// duration) are surfaced by Warnings, never auto-corrected.
type ValidationSettings struct {
	WorkingHoursEnabled bool                 `yaml:"working_hours_enabled" json:"working_hours_enabled"`
	WorkingHours        []timeslot.WorkShift `yaml:"working_hours" json:"working_hours"`

	MinDurationEnabled bool `yaml:"min_duration_enabled" json:"min_duration_enabled"`
	MinDurationMinutes int  `yaml:"min_duration_minutes" json:"min_duration_minutes"`

	MaxDurationEnabled bool `yaml:"max_duration_enabled" json:"max_duration_enabled"`
	MaxDurationMinutes int  `yaml:"max_duration_minutes" json:"max_duration_minutes"`

	MinAdvanceEnabled bool `yaml:"min_advance_enabled" json:"min_advance_enabled"`
	MinAdvanceMinutes int  `yaml:"min_advance_minutes" json:"min_advance_minutes"`
}

// Warnings reports non-fatal configuration inconsistencies. The settings are
// kept as saved; downstream validation simply applies them as-is.
func (s ValidationSettings) Warnings() []string {
	var warnings []string

	if s.MinDurationEnabled && s.MaxDurationEnabled && s.MinDurationMinutes > s.MaxDurationMinutes {
		warnings = append(warnings, fmt.Sprintf(
			"min duration (%d min) exceeds max duration (%d min); every booking will fail one of the two checks",
			s.MinDurationMinutes, s.MaxDurationMinutes))
	}

	for i, shift := range s.WorkingHours {
		if !shift.Valid() {
			warnings = append(warnings, fmt.Sprintf(
				"working hours slot %d (%s-%s) is invalid: start must precede end",
				i+1, shift.Start, shift.End))
		}
	}

	for i := 0; i < len(s.WorkingHours); i++ {
		for j := i + 1; j < len(s.WorkingHours); j++ {
			a, b := s.WorkingHours[i], s.WorkingHours[j]
			if !a.Valid() || !b.Valid() {
				continue
			}
			aStart, _ := a.StartMinutes()
			aEnd, _ := a.EndMinutes()
			bStart, _ := b.StartMinutes()
			bEnd, _ := b.EndMinutes()
			if timeslot.Overlaps(aStart, aEnd, bStart, bEnd) {
				warnings = append(warnings, fmt.Sprintf(
					"working hours slots %d (%s-%s) and %d (%s-%s) overlap",
					i+1, a.Start, a.End, j+1, b.Start, b.End))
			}
		}
	}

	return warnings
}

// EmailSettings controls the notification sink: which events trigger a message
// and the template used for each. Templates use {{placeholder}} substitution.
type EmailSettings struct {
	NotifyUserOnRequest      bool `yaml:"notify_user_on_request"`
	NotifyUserOnStatusChange bool `yaml:"notify_user_on_status_change"`
	NotifyTechnicianOnAssign bool `yaml:"notify_technician_on_assign"`

	UserRequestTemplate    string `yaml:"user_request_template"`
	StatusChangeTemplate   string `yaml:"status_change_template"`
	TechnicianAssignedTmpl string `yaml:"technician_assigned_template"`
}

// Config is the full service configuration.
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Layout struct {
		MinEventWidth int `yaml:"min_event_width"`
		MaxEventWidth int `yaml:"max_event_width"`
		Gap           int `yaml:"gap"`
	} `yaml:"layout"`

	Validation ValidationSettings `yaml:"validation"`
	Email      EmailSettings      `yaml:"email"`
}

// Load reads the YAML config at path, expanding ${ENV_VAR} placeholders and
// applying defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/prenota.db"
	}
	if c.Layout.MinEventWidth <= 0 {
		c.Layout.MinEventWidth = 150
	}
	if c.Layout.MaxEventWidth <= 0 {
		c.Layout.MaxEventWidth = 320
	}
	if c.Layout.Gap <= 0 {
		c.Layout.Gap = 5
	}
	if len(c.Validation.WorkingHours) == 0 {
		c.Validation.WorkingHours = []timeslot.WorkShift{{Start: "09:00", End: "18:00"}}
	}
	if c.Validation.MinDurationMinutes == 0 {
		c.Validation.MinDurationMinutes = 15
	}
}

// CacheTTL returns the configured redis TTL, zero when caching is off.
func (c *Config) CacheTTL() time.Duration {
	if c.Redis.Address == "" || c.Redis.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}
