package log

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/ymatsuda/picfeed/utils/dotenv"
	"github.com/ymatsuda/picfeed/utils/flag"
)

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// This init function is only for testing cases, where the entry point is not
// main function. Unit test will fail with nil pointer dereference if we don't
// init here.
func init() {
	InitLogger()
}

func InitLogger() {
	logger = logrus.New()

	if os.Getenv("PICFEED_ENV") == dotenv.ProdEnv {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	// Send log to stderr, in development without json formatter for better
	// readability
	logger.SetOutput(os.Stderr)

	Log = logger.WithFields(
		logrus.Fields{"service": flag.ServiceName, "is_development": os.Getenv("PICFEED_ENV") != dotenv.ProdEnv},
	)
}
