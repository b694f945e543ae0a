/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic
	For service dependent flags please define in their respective package
*/

package flag

import (
	"flag"
)

const (
	APIServer = "api_server"
)

var (
	IsDevelopment bool
	ByPassAuth    bool
	ServiceName   string
)

func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	flag.BoolVar(&ByPassAuth, "no_auth", false, "set to true to skip session token validation, local debugging only")
	flag.StringVar(&ServiceName, "service", APIServer, "name of the service for logging purpose")
}

// ParseFlags must be called from main. Parsing is not done in init so that
// test binaries, which register their own flags, keep working.
func ParseFlags() {
	flag.Parse()
}
