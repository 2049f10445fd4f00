package eventview

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub-bot/internal/loop"
	"clubhub-bot/internal/models"
)

type stubFetcher struct {
	mu    sync.Mutex
	calls int
	gate  chan struct{}
	errs  []error
	event models.Event
}

func (s *stubFetcher) GetEvent(ctx context.Context, id string) (models.Event, error) {
	s.mu.Lock()
	n := s.calls
	s.calls++
	gate := s.gate
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if n < len(s.errs) && s.errs[n] != nil {
		return models.Event{}, s.errs[n]
	}
	return s.event, nil
}

func twoPages(ev models.Event) []string {
	return []string{ev.Name, "contacts"}
}

func quiet() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestView_LoadsEvent(t *testing.T) {
	lp := loop.New(4)
	f := &stubFetcher{event: models.Event{ID: "42", Name: "Hack Night"}}
	changes := 0

	v := Open("42", f, lp, twoPages, quiet(), func() { changes++ })
	assert.Equal(t, PhaseLoading, v.Phase())
	lp.Drain()

	assert.Equal(t, PhaseLoaded, v.Phase())
	assert.Equal(t, "Hack Night", v.Event().Name)
	assert.Equal(t, 2, v.Pager().Len())
	assert.Equal(t, 1, changes)
}

func TestView_FailureThenRetry(t *testing.T) {
	lp := loop.New(4)
	f := &stubFetcher{errs: []error{errors.New("network down")}, event: models.Event{Name: "Hack Night"}}

	v := Open("42", f, lp, twoPages, quiet(), nil)
	lp.Drain()
	require.Equal(t, PhaseFailed, v.Phase())
	assert.EqualError(t, v.Err(), "network down")

	v.Retry()
	assert.Equal(t, PhaseLoading, v.Phase())
	lp.Drain()

	assert.Equal(t, PhaseLoaded, v.Phase())
	assert.NoError(t, v.Err())
	assert.Equal(t, 2, f.calls)
}

func TestView_RetryIgnoredUnlessFailed(t *testing.T) {
	lp := loop.New(4)
	f := &stubFetcher{event: models.Event{Name: "x"}}

	v := Open("42", f, lp, twoPages, quiet(), nil)
	lp.Drain()
	v.Retry()
	lp.Drain()

	assert.Equal(t, 1, f.calls)
}

func TestView_CloseIgnoresLateResultAndUnsubscribes(t *testing.T) {
	lp := loop.New(4)
	gate := make(chan struct{})
	f := &stubFetcher{gate: gate, event: models.Event{Name: "late"}}
	changes := 0

	v := Open("42", f, lp, twoPages, quiet(), func() { changes++ })
	assert.Equal(t, 1, v.Pager().Subscribers())

	v.Close()
	close(gate)
	lp.Drain()

	assert.True(t, v.Closed())
	assert.Equal(t, PhaseLoading, v.Phase())
	assert.Empty(t, v.Event().Name)
	assert.Zero(t, changes)
	assert.Zero(t, v.Pager().Subscribers())
}

func TestView_FooterBecomesVisibleOnLastPage(t *testing.T) {
	lp := loop.New(4)
	f := &stubFetcher{event: models.Event{Name: "x"}}

	v := Open("42", f, lp, twoPages, quiet(), nil)
	assert.False(t, v.FooterVisible())
	lp.Drain()

	assert.False(t, v.FooterVisible())
	v.Next()
	assert.True(t, v.FooterVisible())
	v.Next()
	assert.Equal(t, 1, v.Pager().Index())
	v.Prev()
	assert.False(t, v.FooterVisible())
}

func TestFooterTracker_Stop(t *testing.T) {
	p := NewPager()
	tr := TrackFooter(p)
	p.SetPages([]string{"only"})
	assert.True(t, tr.Visible())

	tr.Stop()
	tr.Stop()
	p.SetPages([]string{"a", "b"})
	assert.True(t, tr.Visible())
	assert.Zero(t, p.Subscribers())
}

func TestViewport(t *testing.T) {
	assert.True(t, Viewport{FooterTop: 500, WindowHeight: 800}.FooterVisible())
	assert.True(t, Viewport{FooterTop: 800, WindowHeight: 800}.FooterVisible())
	assert.False(t, Viewport{FooterTop: 801, WindowHeight: 800}.FooterVisible())
}

func TestPaginate_KeepsBlocksTogether(t *testing.T) {
	pages := Paginate([]string{"aaaa", "bbbb", "", "cccc"}, 10)
	assert.Equal(t, []string{"aaaa\n\nbbbb", "cccc"}, pages)
}

func TestPaginate_SplitsLongBlockOnWhitespace(t *testing.T) {
	long := strings.Repeat("word ", 10)
	pages := Paginate([]string{long}, 12)
	for _, p := range pages {
		assert.LessOrEqual(t, len(p), 12)
		assert.NotContains(t, p, "wo\n")
	}
	assert.Equal(t, strings.Repeat("word", 10), strings.ReplaceAll(strings.Join(pages, ""), " ", ""))
}

func TestPaginate_DoesNotSplitEntity(t *testing.T) {
	pages := Paginate([]string{"abcdefg&amp;hij"}, 9)
	require.Len(t, pages, 2)
	assert.Equal(t, "abcdefg", pages[0])
	assert.Equal(t, "&amp;hij", pages[1])
}
