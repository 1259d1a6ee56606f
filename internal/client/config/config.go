package config

import "time"

// Config holds runtime settings for the gophreveal CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - RequestTimeout: deadline applied to every RPC.
//   - AccessToken: caller token sent with protected calls; prompted for when empty.
//   - SecretKey: HMAC secret used by the token command to mint caller tokens.
//   - TokenTTL: validity of minted tokens.
//   - JournalPath: SQLite file recording the decryption requests this client made.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
	AccessToken        string
	SecretKey          string
	TokenTTL           time.Duration
	JournalPath        string
}

// Flags lists every command-line flag the CLI configuration consumes.
var Flags = []string{"-a", "-i", "-t", "-s", "-e", "-j", "-c", "-config"}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
	c.AccessToken = ""
	c.SecretKey = "secretKey"
	c.TokenTTL = 24 * time.Hour
	c.JournalPath = "gophreveal.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
