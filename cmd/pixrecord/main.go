package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tacusci/logging/v2"
)

const (
	name        = "pixrecord"
	description = "Renders frames from a playback source and records them through pluggable backends"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           name,
		Short:         description,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newBackendsCmd())
	root.AddCommand(newSetupCmd())
	root.AddCommand(newRemoveSetupCmd())
	return root
}

func init() {
	logging.CallbackLabelLevel = 5
	logging.ColorLogLevelLabelOnly = true
	loggingLevel := os.Getenv("PIXRECORD_LOGGING_LEVEL")

	switch strings.ToLower(loggingLevel) {
	case "info":
		logging.CurrentLoggingLevel = logging.InfoLevel
	case "warn":
		logging.CurrentLoggingLevel = logging.WarnLevel
	case "debug":
		logging.CurrentLoggingLevel = logging.DebugLevel
		logging.CallbackLabel = true
	default:
		logging.CurrentLoggingLevel = logging.WarnLevel
	}
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}
}
