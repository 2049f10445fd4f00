package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifierFunc(t *testing.T) {
	var got Notice
	var n Notifier = NotifierFunc(func(x Notice) { got = x })

	n.Notify(Errorf("delete failed: %s", "boom"))

	assert.Equal(t, Error, got.Level)
	assert.Equal(t, "delete failed: boom", got.Text)
	assert.Equal(t, "[error] delete failed: boom", got.String())
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	_, ok := r.Last()
	assert.False(t, ok)

	r.Notify(Successf("ok"))
	r.Notify(Notice{Text: "fyi"})

	last, ok := r.Last()
	assert.True(t, ok)
	assert.Equal(t, Info, last.Level)
	assert.Len(t, r.Notices, 2)
}
