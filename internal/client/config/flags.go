package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/vtvclient/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   API base url (default from Config)
//	-s string   SQLite session store path
//	-t int      request timeout in seconds
//	-l string   log level
//
// Only these flags are picked out of os.Args via flagx.FilterArgs, so the
// config file flag and anything else on the command line are left alone.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base url")
	fs.StringVar(&cfg.StorePath, "s", cfg.StorePath, "session store path (sqlite)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
