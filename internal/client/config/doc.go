// Package config loads runtime configuration for the gophreveal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-i int      request timeout (seconds)
//	-t string   access token
//	-s string   token signing secret
//	-e int      token validity (minutes)
//	-j string   request journal file
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "10s",
//	  "access_token": "eyJ...",
//	  "secret_key": "secretKey",
//	  "token_ttl": "24h",
//	  "journal_path": "gophreveal.db"
//	}
package config
