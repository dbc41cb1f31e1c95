package logger

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	logrus "github.com/sirupsen/logrus"
)

// Options controls where and how much we log.
type Options struct {
	File    string // rotating log file, defaults to ./logs/app.log
	Level   string // logrus level name, defaults to debug
	Console bool   // also write to stdout (batch commands)
}

// Setup initializes Logrus writing through a rotating file.
func Setup(opts Options) {
	if opts.File == "" {
		opts.File = "./logs/app.log"
	}

	// 1) Lumberjack for file rotation
	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    10, // megabytes
		MaxBackups: 7,  // keep up to 7 old files
		MaxAge:     7,  // days
		Compress:   true,
	}

	var out io.Writer = rotator
	if opts.Console {
		out = io.MultiWriter(os.Stdout, rotator)
	}

	// 2) Configure Logrus to write to that file
	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logrus.SetLevel(parseLevel(opts.Level))
}

func parseLevel(name string) logrus.Level {
	if name == "" {
		return logrus.DebugLevel // capture SQL at Debug/Info
	}
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.DebugLevel
	}
	return lvl
}
