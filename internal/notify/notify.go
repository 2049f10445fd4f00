// Package notify carries short user-facing messages out of controllers and
// workflows. How a notice is shown is up to the front end.
package notify

import "fmt"

type Level int

const (
	Info Level = iota
	Success
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

type Notice struct {
	Level Level
	Text  string
}

func (n Notice) String() string {
	return fmt.Sprintf("[%s] %s", n.Level, n.Text)
}

type Notifier interface {
	Notify(Notice)
}

type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

func Successf(format string, args ...any) Notice {
	return Notice{Level: Success, Text: fmt.Sprintf(format, args...)}
}

func Errorf(format string, args ...any) Notice {
	return Notice{Level: Error, Text: fmt.Sprintf(format, args...)}
}

// Recorder keeps every notice it receives. Useful in tests.
type Recorder struct {
	Notices []Notice
}

func (r *Recorder) Notify(n Notice) { r.Notices = append(r.Notices, n) }

func (r *Recorder) Last() (Notice, bool) {
	if len(r.Notices) == 0 {
		return Notice{}, false
	}
	return r.Notices[len(r.Notices)-1], true
}
