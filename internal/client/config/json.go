package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophreveal/internal/flagx"
	"github.com/dmitrijs2005/gophreveal/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// accept strings like "10s" or integer nanoseconds. Absent keys leave the
// current values alone.
type JsonConfig struct {
	ServerEndpointAddr *string         `json:"server_endpoint_addr"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	AccessToken        *string         `json:"access_token"`
	SecretKey          *string         `json:"secret_key"`
	TokenTTL           *timex.Duration `json:"token_ttl"`
	JournalPath        *string         `json:"journal_path"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *jc.ServerEndpointAddr
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.AccessToken != nil {
		cfg.AccessToken = *jc.AccessToken
	}
	if jc.SecretKey != nil {
		cfg.SecretKey = *jc.SecretKey
	}
	if jc.TokenTTL != nil {
		cfg.TokenTTL = jc.TokenTTL.Duration
	}
	if jc.JournalPath != nil {
		cfg.JournalPath = *jc.JournalPath
	}
}
