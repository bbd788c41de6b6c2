package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// localDefaults is the layout of the local defaults file. It supplies
// fallback values for a fixed set of settings and is consulted only when
// the corresponding environment variable is absent.
type localDefaults struct {
	DatabaseURI        string `json:"databaseURI" yaml:"databaseURI"`
	RedisURL           string `json:"redisURL" yaml:"redisURL"`
	AppID              string `json:"appId" yaml:"appId"`
	MasterKey          string `json:"masterKey" yaml:"masterKey"`
	ServerURL          string `json:"serverURL" yaml:"serverURL"`
	ClientKey          string `json:"clientKey" yaml:"clientKey"`
	RESTAPIKey         string `json:"restAPIKey" yaml:"restAPIKey"`
	FCMAPIKey          string `json:"fcmApiKey" yaml:"fcmApiKey"`
	MailgunFromAddress string `json:"mailgunFromAddress" yaml:"mailgunFromAddress"`
	MailgunDomain      string `json:"mailgunDomain" yaml:"mailgunDomain"`
	MailgunAPIKey      string `json:"mailgunApiKey" yaml:"mailgunApiKey"`
}

// parseLocalDefaults reads the local defaults file at path. Files ending in
// .yaml or .yml are decoded as YAML, everything else as JSON.
//
// A missing file yields [ErrLocalConfigNotFound].
func parseLocalDefaults(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrLocalConfigNotFound, path)
		}
		return nil, fmt.Errorf("error reading local config file: %w", err)
	}

	var defaults localDefaults
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &defaults)
	default:
		err = json.Unmarshal(data, &defaults)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedLocalConfig, err)
	}

	return &StructuredConfig{
		App: App{
			AppID:      defaults.AppID,
			MasterKey:  defaults.MasterKey,
			ClientKey:  defaults.ClientKey,
			RESTAPIKey: defaults.RESTAPIKey,
			ServerURL:  defaults.ServerURL,
		},
		Storage: Storage{
			DatabaseURI: defaults.DatabaseURI,
			RedisURL:    defaults.RedisURL,
		},
		Push: Push{
			Android: AndroidPush{APIKey: defaults.FCMAPIKey},
		},
		EmailAdapter: EmailAdapter{
			Options: MailgunOptions{
				FromAddress: defaults.MailgunFromAddress,
				Domain:      defaults.MailgunDomain,
				APIKey:      defaults.MailgunAPIKey,
			},
		},
	}, nil
}
