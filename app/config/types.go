package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ImageMode controls whether an image is extracted from an entry's
// description HTML and attached to the outgoing payload.
type ImageMode int

const (
	ImageModeNone ImageMode = iota
	ImageModeHTML
)

func (m ImageMode) String() string {
	switch m {
	case ImageModeHTML:
		return "html"
	default:
		return "none"
	}
}

func (m *ImageMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	switch s {
	case "", "none":
		*m = ImageModeNone
	case "html":
		*m = ImageModeHTML
	default:
		return fmt.Errorf("invalid image mode: %q (expected \"none\" or \"html\")", s)
	}

	return nil
}

// Feed describes a single configured feed. In YAML it may be given either
// as a bare URL string or as a mapping with per-feed options.
type Feed struct {
	URL       string    `yaml:"url"`
	ImageMode ImageMode `yaml:"image_mode"`
}

func (f *Feed) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&f.URL)
	}

	type rawFeed Feed
	var raw rawFeed
	if err := value.Decode(&raw); err != nil {
		return err
	}

	*f = Feed(raw)
	return nil
}

// HealthCheck describes an optional outbound heartbeat call.
type HealthCheck struct {
	Endpoint string `yaml:"endpoint"`
	Interval int    `yaml:"interval"` // seconds
	Method   string `yaml:"method"`
}

// Config is the application configuration loaded from a YAML file.
type Config struct {
	Feeds       []Feed       `yaml:"feeds"`
	Webhooks    []string     `yaml:"webhooks"`
	HealthCheck *HealthCheck `yaml:"health_check"`
}
