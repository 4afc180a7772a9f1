package main

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/card-advisor/cmd/classify"
	"fjacquet/card-advisor/cmd/obligations"
	"fjacquet/card-advisor/cmd/recommend"
	"fjacquet/card-advisor/cmd/root"
	"fjacquet/card-advisor/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	_, _ = config.LoadEnv()

	// 2. Configure the global log level before anything logs
	configureLogLevelDirectly()

	// 3. Initialize root command and add all subcommands
	root.Init()
	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(recommend.Cmd)
	root.Cmd.AddCommand(obligations.Cmd)
}

// configureLogLevelDirectly sets the global logrus level from the
// environment, defaulting to info.
func configureLogLevelDirectly() {
	logLevelStr := config.GetEnv(config.EnvPrefix+"_LOG_LEVEL", "info")

	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
