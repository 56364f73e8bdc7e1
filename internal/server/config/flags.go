package config

import (
	"flag"
	"os"
	"time"
)

// flagValues records the command-line flags that were explicitly set, so
// that only those override the JSON and environment overlays.
//
// Supported flags:
//
//	-c/-config string  path to a JSON config file
//	-a string          HTTP bind address (e.g., ":3000")
//	-m string          MongoDB connection URI
//	-n string          MongoDB database name
//	-s string          JWT HMAC secret key
//	-t int             token validity, hours
//	-b int             bcrypt cost factor
//	-k string          SendGrid API key
//	-f string          verification-mail sender address
type flagValues struct {
	configFile string

	fs *flag.FlagSet

	addr          string
	mongoURI      string
	mongoDatabase string
	secretKey     string
	tokenHours    int
	bcryptCost    int
	sendGridKey   string
	senderEmail   string
}

func parseFlags() (*flagValues, error) {
	return parseFlagsFromArgs(os.Args[1:])
}

func parseFlagsFromArgs(args []string) (*flagValues, error) {
	fl := &flagValues{fs: flag.NewFlagSet("server", flag.ContinueOnError)}

	fl.fs.StringVar(&fl.configFile, "config", "", "path to JSON config file")
	fl.fs.StringVar(&fl.configFile, "c", "", "path to JSON config file (short)")
	fl.fs.StringVar(&fl.addr, "a", "", "address and port to run server")
	fl.fs.StringVar(&fl.mongoURI, "m", "", "MongoDB connection URI")
	fl.fs.StringVar(&fl.mongoDatabase, "n", "", "MongoDB database name")
	fl.fs.StringVar(&fl.secretKey, "s", "", "JWT secret key")
	fl.fs.IntVar(&fl.tokenHours, "t", 0, "token validity (in hours)")
	fl.fs.IntVar(&fl.bcryptCost, "b", 0, "bcrypt cost factor")
	fl.fs.StringVar(&fl.sendGridKey, "k", "", "SendGrid API key")
	fl.fs.StringVar(&fl.senderEmail, "f", "", "verification-mail sender address")

	if err := fl.fs.Parse(args); err != nil {
		return nil, err
	}

	return fl, nil
}

// apply copies the flags that were explicitly provided onto cfg. Flags take
// precedence over every other configuration source.
func (fl *flagValues) apply(cfg *Config) {
	fl.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			cfg.Addr = fl.addr
		case "m":
			cfg.MongoURI = fl.mongoURI
		case "n":
			cfg.MongoDatabase = fl.mongoDatabase
		case "s":
			cfg.SecretKey = fl.secretKey
		case "t":
			cfg.TokenValidity = time.Duration(fl.tokenHours) * time.Hour
		case "b":
			cfg.BcryptCost = fl.bcryptCost
		case "k":
			cfg.SendGridAPIKey = fl.sendGridKey
		case "f":
			cfg.SenderEmail = fl.senderEmail
		}
	})
}
