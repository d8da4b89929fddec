package config

import (
	"os"
	"path/filepath"

	"github.com/imdario/mergo"
	"github.com/mitchellh/mapstructure"
	"github.com/oneconcern/cmsctl/pkg/config/status"
	"github.com/spf13/afero"
)

// CredentialSource tells where the credentials in effect come from
type CredentialSource int

const (
	// FromConfigFile keeps the credentials found in gitana.json
	FromConfigFile CredentialSource = iota
	// FromCredentialsFile overrides credentials with the local credentials file
	FromCredentialsFile
	// FromPrompt overrides credentials with values entered interactively
	FromPrompt
)

func (s CredentialSource) String() string {
	switch s {
	case FromCredentialsFile:
		return "credentials file"
	case FromPrompt:
		return "prompt"
	default:
		return "gitana configuration"
	}
}

// Overrides selects how credentials are resolved.
//
// When both UseCredentialsFile and Prompt are set, the credentials file wins.
type Overrides struct {
	UseCredentialsFile bool
	Prompt             bool

	// CredentialsPath defaults to DefaultCredentialsPath()
	CredentialsPath string
}

// Source of the credentials in effect for these overrides
func (o Overrides) Source() CredentialSource {
	switch {
	case o.UseCredentialsFile:
		return FromCredentialsFile
	case o.Prompt:
		return FromPrompt
	default:
		return FromConfigFile
	}
}

// DefaultCredentialsPath is ~/.cloudcms/credentials.json
func DefaultCredentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", status.ErrHomeDirectory.Wrap(err)
	}
	return filepath.Join(home, ".cloudcms", "credentials.json"), nil
}

// LoadCredentials reads a JSON document holding a username and a password
func LoadCredentials(fs afero.Fs, path string) (Credentials, error) {
	var creds Credentials
	doc, err := LoadDocument(fs, path)
	if err != nil {
		return creds, status.ErrCredentials.Wrap(err)
	}
	if err = mapstructure.Decode(doc, &creds); err != nil {
		return creds, status.ErrCredentials.Wrapf("%s: %v", path, err)
	}
	return creds, nil
}

// ApplyCredentials replaces both username and password, whatever their current values.
func (c *Gitana) ApplyCredentials(creds Credentials) error {
	return mergo.Merge(&c.Credentials, creds, mergo.WithOverride, mergo.WithOverwriteWithEmptyValue)
}

// Resolve the credentials in effect for this configuration.
//
// Exactly one source applies: the configuration file as is, the local credentials file
// or the interactive prompt.
func Resolve(fs afero.Fs, cfg *Gitana, o Overrides, prompter Prompter) (CredentialSource, error) {
	source := o.Source()
	var (
		creds Credentials
		err   error
	)
	switch source {
	case FromCredentialsFile:
		path := o.CredentialsPath
		if path == "" {
			if path, err = DefaultCredentialsPath(); err != nil {
				return source, err
			}
		}
		if creds, err = LoadCredentials(fs, path); err != nil {
			return source, err
		}
	case FromPrompt:
		if prompter == nil {
			return source, status.ErrCredentials.Wrapf("no prompt available")
		}
		if creds.Username, err = prompter.Username(); err != nil {
			return source, status.ErrCredentials.Wrap(err)
		}
		if creds.Password, err = prompter.Password(); err != nil {
			return source, status.ErrCredentials.Wrap(err)
		}
	default:
		return source, nil
	}

	if err = cfg.ApplyCredentials(creds); err != nil {
		return source, status.ErrCredentials.Wrap(err)
	}
	return source, nil
}
