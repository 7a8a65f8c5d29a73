package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

const (
	envPrefix      = "EVALCTL_"
	defaultBaseURL = "http://localhost:8080"
)

// CLIState is what evalctl remembers between runs.
type CLIState struct {
	BaseURL string `koanf:"base_url" yaml:"base_url"`
	Token   string `koanf:"token"    yaml:"token,omitempty"`
	UserID  string `koanf:"user_id"  yaml:"user_id,omitempty"`
	Email   string `koanf:"email"    yaml:"email,omitempty"`
}

// LoggedIn reports whether a token and its identity are stored.
func (s CLIState) LoggedIn() bool {
	return s.Token != "" && s.UserID != ""
}

// DefaultStatePath is $XDG_CONFIG_HOME/evalctl/state.yaml or its platform
// equivalent.
func DefaultStatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "evalctl", "state.yaml"), nil
}

// LoadState layers defaults, the state file (if it exists) and EVALCTL_*
// environment variables, in that order.
func LoadState(path string) (*CLIState, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("read state %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// EVALCTL_BASE_URL -> base_url
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	st := CLIState{BaseURL: defaultBaseURL}
	if err := k.UnmarshalWithConf("", &st, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}
	if st.BaseURL == "" {
		st.BaseURL = defaultBaseURL
	}
	return &st, nil
}

// SaveState writes st to path readable only by the owner, since it holds
// the bearer token.
func SaveState(path string, st CLIState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	raw, err := yamlv3.Marshal(st)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}
