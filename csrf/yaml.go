package csrf

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

// LoadConfig reads Config fields from a YAML file. A missing file is not an
// error: the zero Config is returned and New's defaults apply. Collaborators
// (Store, Stats) cannot come from YAML and stay nil.
func LoadConfig(configFilePath string) (Config, error) {
	var cfg Config

	if configFilePath == "" {
		return cfg, nil
	}

	if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
		log.Info().
			Str("path", configFilePath).
			Msg("No YAML configuration file found, skipping")

		return cfg, nil
	}

	raw, err := os.ReadFile(configFilePath) // #nosec G304 -- Only loading a config file
	if err != nil {
		return cfg, fmt.Errorf("failed to read configuration file %s: %w", configFilePath, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse YAML from %s: %w", configFilePath, err)
	}

	return cfg, nil
}
