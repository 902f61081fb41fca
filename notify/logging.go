/*
 * Copyright (c) 2026 frozensunq contributors
 */
package notify

import (
	"log"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger returns a *log.Logger writing to logfile with rotation,
// grounded on the teacher's tdns/logging.go SetupLogging. An empty
// logfile logs to the process's standard logger destination instead
// of failing — this module is a library, not a daemon, so it should
// not decide stderr vs. a file on the caller's behalf the way
// tdnsd's main.go does.
func NewLogger(logfile string) *log.Logger {
	if logfile == "" {
		return log.Default()
	}
	return log.New(&lumberjack.Logger{
		Filename:   logfile,
		MaxSize:    20,
		MaxBackups: 3,
		MaxAge:     14,
	}, "", log.Lshortfile|log.Ltime)
}
