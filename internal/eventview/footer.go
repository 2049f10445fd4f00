package eventview

type ScrollSource interface {
	Subscribe(fn func(Viewport)) (unsubscribe func())
	Viewport() Viewport
}

// FooterTracker follows whether the trailing footer is on screen.
type FooterTracker struct {
	visible bool
	unsub   func()
}

func TrackFooter(src ScrollSource) *FooterTracker {
	t := &FooterTracker{visible: src.Viewport().FooterVisible()}
	t.unsub = src.Subscribe(func(v Viewport) {
		t.visible = v.FooterVisible()
	})
	return t
}

func (t *FooterTracker) Visible() bool { return t.visible }

func (t *FooterTracker) Stop() {
	if t.unsub != nil {
		t.unsub()
		t.unsub = nil
	}
}
