package cli

import (
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/fatih/color"
)

// SetupLogging installs the terminal log handler on stderr. Verbosity uses
// the legacy levels: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace.
func SetupLogging(verbosity int) {
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, log.FromLegacyLevel(verbosity), !color.NoColor)
	log.SetDefault(log.NewLogger(handler))
}
