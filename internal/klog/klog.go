// Package klog configures the process-wide logrus logger used by every
// later pass. It plays the same role sqldef's util.InitSlog played (an
// env-var-driven level switch set up once from main), but targets logrus
// the way vippsas-sqlcode's cli/cmd package does, since logrus is the
// ecosystem logger the retrieved pack actually wires in.
package klog

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Init configures the default logger's level from the KCL_LOG_LEVEL
// environment variable. Supported levels: debug, info, warn, error.
// Unset or unrecognized values default to warn, so a normal compilation
// stays quiet on stderr.
func Init() {
	level := logrus.WarnLevel
	if raw, ok := os.LookupEnv("KCL_LOG_LEVEL"); ok {
		if parsed, err := logrus.ParseLevel(strings.ToLower(raw)); err == nil {
			level = parsed
		}
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
}

// L returns the shared logger so packages can attach fields
// (log.WithField("pkg", "evaluator")) without importing logrus directly.
func L() *logrus.Logger { return log }
