package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophreveal/internal/flagx"
	"github.com/dmitrijs2005/gophreveal/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk form of Config. Both JSON and YAML files decode
// into it; durations accept "5m" style strings or integer nanoseconds.
// Only fields present in the file override the current values.
type FileConfig struct {
	EndpointAddrGRPC  *string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	EndpointAddrHTTP  *string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	Backend           *string         `json:"backend" yaml:"backend"`
	DatabaseDSN       *string         `json:"database_dsn" yaml:"database_dsn"`
	DataDir           *string         `json:"data_dir" yaml:"data_dir"`
	Arithmetic        *string         `json:"arithmetic" yaml:"arithmetic"`
	SecretKey         *string         `json:"secret_key" yaml:"secret_key"`
	OracleSecret      *string         `json:"oracle_secret" yaml:"oracle_secret"`
	PendingRequestTTL *timex.Duration `json:"pending_request_ttl" yaml:"pending_request_ttl"`
	ExpirySchedule    *string         `json:"expiry_schedule" yaml:"expiry_schedule"`
	S3RootUser        *string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword    *string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket          *string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region          *string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint    *string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	AllowedCallers    []string        `json:"allowed_callers" yaml:"allowed_callers"`
	AdminCallers      []string        `json:"admin_callers" yaml:"admin_callers"`
	LogLevel          *string         `json:"log_level" yaml:"log_level"`
}

// parseFile loads configuration values from the file named by -c/-config.
// Files ending in .yaml or .yml are decoded as YAML, everything else as JSON.
// If the flag is absent nothing is loaded. Unreadable or invalid files panic.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(config)
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.EndpointAddrGRPC, fc.EndpointAddrGRPC)
	setString(&c.EndpointAddrHTTP, fc.EndpointAddrHTTP)
	setString(&c.Backend, fc.Backend)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.DataDir, fc.DataDir)
	setString(&c.Arithmetic, fc.Arithmetic)
	setString(&c.SecretKey, fc.SecretKey)
	setString(&c.OracleSecret, fc.OracleSecret)
	if fc.PendingRequestTTL != nil {
		c.PendingRequestTTL = fc.PendingRequestTTL.Duration
	}
	setString(&c.ExpirySchedule, fc.ExpirySchedule)
	setString(&c.S3RootUser, fc.S3RootUser)
	setString(&c.S3RootPassword, fc.S3RootPassword)
	setString(&c.S3Bucket, fc.S3Bucket)
	setString(&c.S3Region, fc.S3Region)
	setString(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
	if fc.AllowedCallers != nil {
		c.AllowedCallers = fc.AllowedCallers
	}
	if fc.AdminCallers != nil {
		c.AdminCallers = fc.AdminCallers
	}
	setString(&c.LogLevel, fc.LogLevel)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
