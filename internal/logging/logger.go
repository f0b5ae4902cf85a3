package logging

import (
	"io"
	"strings"

	"github.com/labstack/gommon/log"
)

// JSON1行で出すヘッダー（echoのLoggerと同じ形式）
const jsonHeader = `{"time":"${time_rfc3339}","level":"${level}","prefix":"${prefix}","file":"${short_file}","line":"${line}"}`

// アプリ共通のロガーを作る。echoの e.Logger にもこれを入れる。
func New(prefix string, level string, out io.Writer) *log.Logger {
	l := log.New(prefix)
	l.SetHeader(jsonHeader)
	l.SetLevel(ParseLevel(level))
	if out != nil {
		l.SetOutput(out)
	}
	return l
}

// 不明な値はINFO
func ParseLevel(s string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
