package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

var ErrMissingAPIKey = errors.New("missing APIkey in [mollie] section")

// Config is the runtime configuration read from config.ini. The MOLLIE_API_KEY
// and MOLLIE_PROFILE_ID environment variables override the file, which also
// lets CI run without a config file on disk.
type Config struct {
	APIKey        string
	ProfileID     string
	BaseURL       string
	LogFile       string
	ImportBaseDir string
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")

	v.SetDefault("log.file", "import.log")
	v.SetDefault("import.base_dir", ".")

	_ = v.BindEnv("mollie.apikey", "MOLLIE_API_KEY")
	_ = v.BindEnv("mollie.profileid", "MOLLIE_PROFILE_ID")
	_ = v.BindEnv("mollie.base_url", "MOLLIE_BASE_URL")

	if err := v.ReadInConfig(); err != nil {
		if os.Getenv("MOLLIE_API_KEY") == "" {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		APIKey:        v.GetString("mollie.apikey"),
		ProfileID:     v.GetString("mollie.profileid"),
		BaseURL:       v.GetString("mollie.base_url"),
		LogFile:       v.GetString("log.file"),
		ImportBaseDir: v.GetString("import.base_dir"),
	}

	if cfg.APIKey == "" {
		return Config{}, ErrMissingAPIKey
	}
	return cfg, nil
}
