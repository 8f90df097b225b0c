// Package settings holds user-level settings that span projects, kept in
// ~/.config/wheelforge and overridable through WHEELFORGE_* environment
// variables.
package settings

import (
	"errors"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/wheelforge/wheelforge/pkg/global"
)

type Settings struct {
	// UpstreamIndexURL is the package index the local index proxies to for
	// projects it doesn't hold wheels for.
	UpstreamIndexURL string `mapstructure:"upstream_index_url"`
	CacheDir         string `mapstructure:"cache_dir"`
	S3Bucket         string `mapstructure:"s3_bucket"`
	S3Prefix         string `mapstructure:"s3_prefix"`
	S3Region         string `mapstructure:"s3_region"`
	// Static credentials for wheel uploads. The default AWS chain is used
	// when these are empty.
	S3AccessKeyID     string `mapstructure:"s3_access_key_id"`
	S3SecretAccessKey string `mapstructure:"s3_secret_access_key"`
}

func Dir() (string, error) {
	return homedir.Expand("~/.config/wheelforge")
}

func Load() (*Settings, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(dir)
}

// LoadFrom reads settings.yaml from dir, falling back to defaults and
// environment overrides when the file doesn't exist.
func LoadFrom(dir string) (*Settings, error) {
	v := viper.New()
	v.SetConfigName("settings")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("WHEELFORGE")
	v.AutomaticEnv()

	v.SetDefault("upstream_index_url", global.DefaultUpstreamIndexURL)
	v.SetDefault("cache_dir", filepath.Join(dir, "cache"))
	v.SetDefault("s3_bucket", "")
	v.SetDefault("s3_prefix", "wheels")
	v.SetDefault("s3_region", "")
	v.SetDefault("s3_access_key_id", "")
	v.SetDefault("s3_secret_access_key", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	settings := new(Settings)
	if err := v.Unmarshal(settings); err != nil {
		return nil, err
	}
	return settings, nil
}
