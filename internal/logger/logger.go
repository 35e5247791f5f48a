// Package logger configures the logrus loggers of visionboard.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures a logger.
type Options struct {
	// File is the rotated log file, no file is written when empty.
	File  string
	Level string
	// Console writes the logs to stderr.
	Console bool
}

// New returns a new well configured logger.
func New(o Options) (*logrus.Logger, error) {
	level := logrus.InfoLevel
	if o.Level != "" {
		var err error
		if level, err = logrus.ParseLevel(o.Level); err != nil {
			return nil, errors.Wrap(err, "could not parse log level")
		}
	}

	formatter := new(logFormatter)

	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(formatter)
	log.SetOutput(io.Discard) // stdout & stderr to /dev/null
	if o.Console {
		log.SetOutput(os.Stderr)
	}

	if o.File != "" {
		log.Hooks.Add(&fileHook{
			rotate: &lumberjack.Logger{
				Filename:   o.File,
				MaxSize:    20, // megabytes
				MaxBackups: 2,
				MaxAge:     10, //days
			},
			formatter: formatter,
		})
	}

	return log, nil
}

////////////////////
//                //
// File hook      //
//                //
////////////////////

type fileHook struct {
	sync.Mutex
	rotate    *lumberjack.Logger
	formatter logrus.Formatter
}

// Fire opens the file, writes to the file and closes the file.
// Whichever user is running the function needs write permissions to the file or directory if the file does not yet exist.
func (hook *fileHook) Fire(entry *logrus.Entry) error {
	hook.Lock()
	defer hook.Unlock()

	// use our formatter instead of entry.String()
	msg, err := hook.formatter.Format(entry)
	if err != nil {
		log.Println("failed to generate string for entry:", err)
		return err
	}

	_, err = hook.rotate.Write(msg)
	return err
}

// Levels returns configured log levels.
func (hook *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

////////////////////
//                //
// Log formatter  //
//                //
////////////////////

type logFormatter struct{}

// Format implements Logrus formatter.
func (f *logFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	fields := ""
	if len(entry.Data) > 0 {
		fs := []string{}
		for k, v := range entry.Data {
			fs = append(fs, fmt.Sprintf("%s=%v", k, v))
		}
		sort.Strings(fs)
		fields = fmt.Sprintf(" (%s)", strings.Join(fs, ", "))
	}

	data := fmt.Sprintf("[%s] %+5s: %s%s\n",
		entry.Time.Format(time.RFC3339),
		strings.ToUpper(entry.Level.String()),
		entry.Message,
		fields,
	)
	return []byte(data), nil
}
