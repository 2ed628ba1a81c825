package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadProfile overlays a YAML site profile onto cfg.Site. Only fields the
// profile sets are overridden; everything else keeps its env/default value.
func LoadProfile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read profile %s: %w", path, err)
	}

	var profile SiteConfig
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return fmt.Errorf("config: parse profile %s: %w", path, err)
	}

	if profile.BaseURL != "" {
		cfg.Site.BaseURL = profile.BaseURL
	}
	if profile.SeedPath != "" {
		cfg.Site.SeedPath = profile.SeedPath
	}
	if len(profile.Letters) > 0 {
		cfg.Site.Letters = profile.Letters
	}
	if profile.IndexMarkerSelector != "" {
		cfg.Site.IndexMarkerSelector = profile.IndexMarkerSelector
	}
	if profile.DetailFieldSelector != "" {
		cfg.Site.DetailFieldSelector = profile.DetailFieldSelector
	}
	if profile.VisitWebsiteLabel != "" {
		cfg.Site.VisitWebsiteLabel = profile.VisitWebsiteLabel
	}

	return cfg.Site.Validate()
}

// Validate checks the site settings a crawl cannot start without.
func (s SiteConfig) Validate() error {
	if s.BaseURL == "" {
		return fmt.Errorf("config: base_url is required")
	}
	if !strings.Contains(s.SeedPath, "%s") {
		return fmt.Errorf("config: seed_path %q needs a %%s letter placeholder", s.SeedPath)
	}
	if s.IndexMarkerSelector == "" || s.DetailFieldSelector == "" {
		return fmt.Errorf("config: marker and detail selectors are required")
	}
	return nil
}
