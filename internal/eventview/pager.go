package eventview

import (
	"strings"
	"unicode/utf8"
)

// Viewport is the scroll position the footer tracker reacts to. Positions
// are measured in pages: the footer sits right after the last page.
type Viewport struct {
	FooterTop    int
	WindowHeight int
}

func (v Viewport) FooterVisible() bool {
	return v.FooterTop <= v.WindowHeight
}

// Pager shows a long detail text one page at a time. Moving between pages
// is the chat equivalent of scrolling, and subscribers hear about it.
type Pager struct {
	pages []string
	cur   int

	subs   map[int]func(Viewport)
	nextID int
}

func NewPager() *Pager {
	return &Pager{subs: map[int]func(Viewport){}}
}

func (p *Pager) SetPages(pages []string) {
	p.pages = pages
	p.cur = 0
	p.publish()
}

func (p *Pager) Next() bool {
	if p.cur+1 >= len(p.pages) {
		return false
	}
	p.cur++
	p.publish()
	return true
}

func (p *Pager) Prev() bool {
	if p.cur == 0 {
		return false
	}
	p.cur--
	p.publish()
	return true
}

func (p *Pager) Current() string {
	if len(p.pages) == 0 {
		return ""
	}
	return p.pages[p.cur]
}

func (p *Pager) Index() int { return p.cur }
func (p *Pager) Len() int   { return len(p.pages) }

func (p *Pager) Viewport() Viewport {
	if len(p.pages) == 0 {
		return Viewport{FooterTop: 2, WindowHeight: 1}
	}
	return Viewport{FooterTop: len(p.pages) - p.cur, WindowHeight: 1}
}

// Subscribe registers fn for viewport changes and returns its cancel func.
func (p *Pager) Subscribe(fn func(Viewport)) (unsubscribe func()) {
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	return func() { delete(p.subs, id) }
}

func (p *Pager) Subscribers() int { return len(p.subs) }

func (p *Pager) publish() {
	vp := p.Viewport()
	for _, fn := range p.subs {
		fn(vp)
	}
}

// Paginate packs blocks into pages of at most limit characters, keeping
// blocks whole where they fit. Oversized blocks are split on whitespace.
func Paginate(blocks []string, limit int) []string {
	var pages []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			pages = append(pages, cur.String())
			cur.Reset()
		}
	}

	for _, b := range blocks {
		if b == "" {
			continue
		}
		for _, piece := range split(b, limit) {
			n := utf8.RuneCountInString(cur.String())
			if n > 0 && n+2+utf8.RuneCountInString(piece) > limit {
				flush()
			}
			if cur.Len() > 0 {
				cur.WriteString("\n\n")
			}
			cur.WriteString(piece)
		}
	}
	flush()
	return pages
}

func split(block string, limit int) []string {
	var out []string
	for utf8.RuneCountInString(block) > limit {
		cut := cutPoint(block, limit)
		out = append(out, strings.TrimRight(block[:cut], " \n"))
		block = strings.TrimLeft(block[cut:], " \n")
	}
	if block != "" {
		out = append(out, block)
	}
	return out
}

// cutPoint returns a byte offset within the first limit runes, preferring
// a newline, then a space, and never landing inside an HTML entity.
func cutPoint(s string, limit int) int {
	end := 0
	for i := 0; i < limit; i++ {
		_, size := utf8.DecodeRuneInString(s[end:])
		end += size
	}
	head := s[:end]
	if i := strings.LastIndexByte(head, '\n'); i > 0 {
		return i
	}
	if i := strings.LastIndexByte(head, ' '); i > 0 {
		return i
	}
	if amp := strings.LastIndexByte(head, '&'); amp > 0 && amp > strings.LastIndexByte(head, ';') {
		return amp
	}
	return end
}
