package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophreveal/internal/flagx"
)

var serverFlags = []string{
	"-a", "-w", "-k", "-d", "-f", "-i", "-s", "-o", "-t", "-x",
	"-u", "-p", "-b", "-g", "-e", "-r", "-m", "-l",
}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-w string   HTTP bind address for callbacks and metrics
//	-k string   storage backend: pebble or postgres
//	-d string   PostgreSQL DSN
//	-f string   Pebble data directory
//	-i string   topic counter arithmetic (clear)
//	-s string   JWT HMAC secret key
//	-o string   oracle proof secret
//	-t int      pending request TTL, minutes (0 = never expire)
//	-x string   expiry sweeper cron schedule
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-r string   comma-separated callers allowed to request decryption
//	-m string   comma-separated admin callers
//	-l string   log level
//
// The TTL is accepted as whole minutes and converted to time.Duration.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run gRPC server")
	fs.StringVar(&config.EndpointAddrHTTP, "w", config.EndpointAddrHTTP, "address and port to run callback server")
	fs.StringVar(&config.Backend, "k", config.Backend, "storage backend (pebble|postgres)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.DataDir, "f", config.DataDir, "pebble data directory")
	fs.StringVar(&config.Arithmetic, "i", config.Arithmetic, "topic counter arithmetic (clear)")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.OracleSecret, "o", config.OracleSecret, "oracle proof secret")

	ttl := fs.Int("t", int(config.PendingRequestTTL.Minutes()), "pending request TTL (in minutes)")

	fs.StringVar(&config.ExpirySchedule, "x", config.ExpirySchedule, "expiry sweeper cron schedule")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	allowed := fs.String("r", strings.Join(config.AllowedCallers, ","), "callers allowed to request decryption")
	admins := fs.String("m", strings.Join(config.AdminCallers, ","), "admin callers")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.PendingRequestTTL = time.Duration(*ttl) * time.Minute
	config.AllowedCallers = flagx.SplitList(*allowed)
	config.AdminCallers = flagx.SplitList(*admins)
}
