// Package config loads the gitana.json configuration used to connect to Cloud CMS,
// and resolves which credentials are in effect for an invocation.
package config

import (
	"strings"

	"github.com/oneconcern/cmsctl/pkg/config/status"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	// DefaultGitanaFile is the configuration file used when none is specified
	DefaultGitanaFile = "./gitana.json"

	// EnvPrefix prefixes environment variables overriding configuration values,
	// e.g. CMSCTL_BASEURL
	EnvPrefix = "CMSCTL"
)

// Credentials for the Cloud CMS user
type Credentials struct {
	Username string `mapstructure:"username" json:"username" yaml:"username"`
	Password string `mapstructure:"password" json:"password" yaml:"password"`
}

// Gitana describes the connection settings to a Cloud CMS platform, as found in gitana.json.
//
// Fields this program does not know about are kept in Extra. Their keys are lowercased
// when the file is read, e.g. "customerId" comes out as "customerid".
type Gitana struct {
	BaseURL      string `mapstructure:"baseURL" json:"baseURL" yaml:"baseURL"`
	ClientKey    string `mapstructure:"clientKey" json:"clientKey,omitempty" yaml:"clientKey,omitempty"`
	ClientSecret string `mapstructure:"clientSecret" json:"clientSecret,omitempty" yaml:"clientSecret,omitempty"`
	Application  string `mapstructure:"application" json:"application,omitempty" yaml:"application,omitempty"`
	Project      string `mapstructure:"project" json:"project,omitempty" yaml:"project,omitempty"`
	Repository   string `mapstructure:"repository" json:"repository,omitempty" yaml:"repository,omitempty"`

	Credentials `mapstructure:",squash" json:",inline" yaml:",inline"`

	Extra map[string]interface{} `mapstructure:",remain" json:"-" yaml:"-"`
}

// envKeys lists the settings which may be overridden from the environment
var envKeys = []string{"baseurl", "username", "password", "clientkey", "clientsecret"}

// Load a gitana configuration file from fs.
//
// Values may be overridden by environment variables prefixed with EnvPrefix.
func Load(fs afero.Fs, path string) (*Gitana, error) {
	if path == "" {
		path = DefaultGitanaFile
	}
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, status.ErrConfigInvalid.Wrap(err)
	}
	if !exists {
		return nil, status.ErrConfigNotFound.Wrapf("%s", path)
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	for _, key := range envKeys {
		if err = v.BindEnv(key); err != nil {
			return nil, status.ErrConfigInvalid.Wrap(err)
		}
	}

	if err = v.ReadInConfig(); err != nil {
		return nil, status.ErrConfigInvalid.Wrapf("%s: %v", path, err)
	}

	var cfg Gitana
	if err = v.Unmarshal(&cfg); err != nil {
		return nil, status.ErrConfigInvalid.Wrapf("%s: %v", path, err)
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		return nil, status.ErrMissingBaseURL.Wrapf("%s", path)
	}
	return &cfg, nil
}

// Redacted returns a copy of the configuration safe to log
func (c Gitana) Redacted() Gitana {
	const mask = "******"
	if c.Password != "" {
		c.Password = mask
	}
	if c.ClientSecret != "" {
		c.ClientSecret = mask
	}
	return c
}
