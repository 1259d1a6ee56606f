package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophreveal/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the backend server
//	-i int      request timeout (in seconds)
//	-t string   access token
//	-s string   token signing secret
//	-e int      token validity (in minutes)
//	-j string   request journal file
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, so subcommands and their arguments are ignored.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-t", "-s", "-e", "-j"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	timeout := fs.Int("i", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "access token")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "token signing secret")
	tokenTTL := fs.Int("e", int(cfg.TokenTTL.Minutes()), "token validity (in minutes)")
	fs.StringVar(&cfg.JournalPath, "j", cfg.JournalPath, "request journal file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.TokenTTL = time.Duration(*tokenTTL) * time.Minute
}
