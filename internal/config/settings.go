package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults applied when neither the config file nor a flag sets a value.
const (
	DefaultPath       = ".quickreview.yml"
	DefaultTarget     = "main"
	DefaultFormat     = "text"
	DefaultOutputDir  = "review_reports"
	DefaultIgnoreFile = ".autoreview-ignore"
	DefaultColor      = "auto"
	DefaultSMTPPort   = 587
)

// Settings holds persistent CLI defaults loaded from a config file.
type Settings struct {
	Target     string   `yaml:"target,omitempty" validate:"omitempty,printascii"`
	FullScan   bool     `yaml:"full_scan,omitempty"`
	Format     string   `yaml:"format,omitempty" validate:"omitempty,oneof=text json sarif"`
	OutputDir  string   `yaml:"output_dir,omitempty"`
	IgnoreFile string   `yaml:"ignore_file,omitempty"`
	Ignore     []string `yaml:"ignore,omitempty" validate:"dive,required"` // appended to the ignore file
	Color      string   `yaml:"color,omitempty" validate:"omitempty,oneof=auto always never"`

	// Email delivery of the report summary
	Email *EmailConfig `yaml:"email,omitempty"`
}

// EmailConfig holds SMTP settings. The password is only read from the
// environment.
type EmailConfig struct {
	To       string `yaml:"to,omitempty" validate:"omitempty,email"`
	From     string `yaml:"from,omitempty" validate:"omitempty,email"`
	FromName string `yaml:"from_name,omitempty"`
	SMTPHost string `yaml:"smtp_host,omitempty" validate:"omitempty,hostname_rfc1123|ip"`
	SMTPPort int    `yaml:"smtp_port,omitempty" validate:"omitempty,min=1,max=65535"`
	SMTPUser string `yaml:"smtp_user,omitempty"`
}

// LoadSettings reads a YAML config file into Settings.
// If the file does not exist, it returns zero-value Settings and nil error.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return &s, nil
}

// Validate checks field values against their struct tags.
func (s *Settings) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

// WithDefaults returns a copy with every unset field defaulted.
func (s *Settings) WithDefaults() *Settings {
	out := *s
	if out.Target == "" {
		out.Target = DefaultTarget
	}
	if out.Format == "" {
		out.Format = DefaultFormat
	}
	if out.OutputDir == "" {
		out.OutputDir = DefaultOutputDir
	}
	if out.IgnoreFile == "" {
		out.IgnoreFile = DefaultIgnoreFile
	}
	if out.Color == "" {
		out.Color = DefaultColor
	}
	out.Ignore = append([]string(nil), s.Ignore...)
	if s.Email != nil {
		email := *s.Email
		if email.SMTPPort == 0 {
			email.SMTPPort = DefaultSMTPPort
		}
		out.Email = &email
	}
	return &out
}

// Marshal renders the settings as YAML.
func (s *Settings) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// WriteDefault writes the default settings to path. An existing file is
// only replaced when force is set.
func WriteDefault(path string, force bool) (string, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	data, err := (&Settings{}).WithDefaults().Marshal()
	if err != nil {
		return "", fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
