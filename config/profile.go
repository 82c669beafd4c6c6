package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/nicholasjackson/latency-simulator/timing"
	"gopkg.in/yaml.v3"
)

// LoadProfile reads the latency profile from the YAML or JSON file at path.
// When the file does not exist or can not be parsed an empty profile is
// returned so that requests fail with a clear error rather than the process
// refusing to start.
func LoadProfile(path string, l hclog.Logger) timing.Profile {
	d, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		l.Warn("Latency profile configuration file not found, using empty profile", "file", path)
		return timing.NewProfile(nil)
	}

	if err != nil {
		l.Error("Error loading latency profile, using empty profile", "file", path, "error", err)
		return timing.NewProfile(nil)
	}

	p, err := ParseProfile(d)
	if err != nil {
		l.Error("Error loading latency profile, using empty profile", "file", path, "error", err)
		return timing.NewProfile(nil)
	}

	if missing := p.MissingKeys(); p.Len() > 0 && len(missing) > 0 {
		l.Warn("Latency profile configuration is missing required keys", "file", path, "keys", strings.Join(missing, ", "))
	}

	l.Info("Latency profile loaded", "file", path, "profile", p.String())

	return p
}

// ParseProfile decodes a latency profile document, keys are case insensitive
// and a document which defines the same key twice is rejected
func ParseProfile(d []byte) (timing.Profile, error) {
	raw := map[string]interface{}{}

	err := yaml.Unmarshal(d, &raw)
	if err != nil {
		return timing.Profile{}, fmt.Errorf("unable to parse latency profile: %w", err)
	}

	values := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		key := strings.ToLower(strings.TrimSpace(k))
		if _, ok := values[key]; ok {
			return timing.Profile{}, fmt.Errorf("latency profile contains duplicate key %q", key)
		}

		values[key] = v
	}

	return timing.NewProfile(values), nil
}
