// Package config supplies fallback argument values from an XDG-located
// configuration file and prefixed environment variables. Values are keyed
// by the same dotted paths the flag namespace uses, so a config entry
// `user.address.city` backfills the flag --user.address.city when the end
// user leaves it unset.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Source resolves dotted paths against the loaded configuration.
type Source struct {
	v       *viper.Viper
	appName string
}

// Load reads $XDG_CONFIG_HOME/<appName>/config.yaml (optional) and binds
// APPNAME_-prefixed environment variables. A missing config file is not an
// error; a malformed one is.
func Load(appName string) (*Source, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(xdg.ConfigHome, appName))

	v.SetEnvPrefix(strings.ToUpper(strings.ReplaceAll(appName, "-", "_")))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config for %s: %w", appName, err)
		}
	}
	return &Source{v: v, appName: appName}, nil
}

// FromViper wraps an existing viper instance, mainly for tests.
func FromViper(v *viper.Viper) *Source {
	return &Source{v: v}
}

// Lookup returns the raw string values for a dotted path, and whether the
// path is set in any bound source.
func (s *Source) Lookup(path string) ([]string, bool) {
	if s == nil || !s.v.IsSet(path) {
		return nil, false
	}
	value := s.v.Get(path)
	switch vv := value.(type) {
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			out = append(out, fmt.Sprint(item))
		}
		return out, true
	case []string:
		return vv, true
	case nil:
		return nil, false
	default:
		return []string{fmt.Sprint(vv)}, true
	}
}

// Path returns the config file location for appName, whether it exists or
// not, so integrators can point users at it.
func Path(appName string) string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}
