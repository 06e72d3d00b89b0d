package logging

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Setup configures the global logrus logger for console use.
func Setup(out io.Writer, level string, noColor bool) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", level)
	}
	color.NoColor = noColor
	logrus.SetLevel(lvl)
	logrus.SetOutput(out)
	logrus.SetFormatter(&ConsoleFormatter{})
	return nil
}

// ConsoleFormatter prints "LEVEL: message key=value ..." with the level
// colored. Fields are sorted so output is stable.
type ConsoleFormatter struct{}

func (f *ConsoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(levelLabel(entry.Level))
	b.WriteString(": ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", color.CyanString(k), entry.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func levelLabel(level logrus.Level) string {
	label := strings.ToUpper(level.String())
	switch level {
	case logrus.WarnLevel:
		return color.YellowString("WARNING")
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return color.RedString(label)
	case logrus.DebugLevel, logrus.TraceLevel:
		return color.HiBlackString(label)
	default:
		return color.GreenString(label)
	}
}
