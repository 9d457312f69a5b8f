package browser

import (
	"fmt"
	"sync"
	"time"
)

// fakeDriver implements Driver for tests without a real browser.
type fakeDriver struct {
	mu           sync.Mutex
	pages        []*fakePage
	scripted     bool
	snapshotText string
	liveRawRefs  map[string]bool
	closed       bool
}

func newFakeDriver(snapshotText string) *fakeDriver {
	return &fakeDriver{
		scripted:     true,
		snapshotText: snapshotText,
		liveRawRefs:  make(map[string]bool),
	}
}

// factory returns a DriverFactory handing out this driver and counting
// launches.
func (d *fakeDriver) factory(launches *int) DriverFactory {
	return func() (Driver, error) {
		if launches != nil {
			*launches++
		}
		return d, nil
	}
}

func (d *fakeDriver) NewPage() (Page, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	page := &fakePage{driver: d, title: "fake page"}
	d.pages = append(d.pages, page)
	return page, nil
}

func (d *fakeDriver) SupportsScriptedSnapshot() bool {
	return d.scripted
}

func (d *fakeDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for _, page := range d.pages {
		page.closed = true
	}
	return nil
}

// fakePage records every interaction performed against it.
type fakePage struct {
	driver  *fakeDriver
	url     string
	title   string
	content string
	closed  bool

	actions       []string
	netIdleErr    error
	navigateErr   error
	snapshotErr   error
	settleCalled  int
	settleTimeout time.Duration
}

func (p *fakePage) Navigate(url string, timeout time.Duration) error {
	if p.navigateErr != nil {
		return p.navigateErr
	}
	p.url = url
	p.actions = append(p.actions, "navigate "+url)
	return nil
}

func (p *fakePage) URL() string {
	return p.url
}

func (p *fakePage) Title() (string, error) {
	return p.title, nil
}

func (p *fakePage) ScriptedSnapshot(timeout time.Duration) (string, error) {
	if p.snapshotErr != nil {
		return "", p.snapshotErr
	}
	return p.driver.snapshotText, nil
}

func (p *fakePage) AriaSnapshot(timeout time.Duration) (string, error) {
	if p.snapshotErr != nil {
		return "", p.snapshotErr
	}
	return p.driver.snapshotText, nil
}

func (p *fakePage) ByRoleName(role, name string, hasName bool) Target {
	desc := "role=" + role
	if hasName {
		desc += fmt.Sprintf(" name=%q", name)
	}
	return &fakeTarget{page: p, desc: desc}
}

func (p *fakePage) ByRawRef(id string) Target {
	return &fakeTarget{page: p, desc: "raw=" + id, rawRef: id}
}

func (p *fakePage) Press(key string) error {
	p.actions = append(p.actions, "press "+key)
	return nil
}

func (p *fakePage) Wheel(dx, dy float64) error {
	p.actions = append(p.actions, fmt.Sprintf("wheel %.0f,%.0f", dx, dy))
	return nil
}

func (p *fakePage) WaitForNetworkIdle(timeout time.Duration) error {
	p.settleCalled++
	p.settleTimeout = timeout
	return p.netIdleErr
}

func (p *fakePage) Content() (string, error) {
	return p.content, nil
}

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}

// fakeTarget records interactions on its page. Raw-ref targets only work
// while the driver still tracks the id, mirroring real element tagging.
type fakeTarget struct {
	page   *fakePage
	desc   string
	rawRef string
	nth    int
}

func (t *fakeTarget) Nth(index int) Target {
	return &fakeTarget{page: t.page, desc: t.desc, rawRef: t.rawRef, nth: index}
}

func (t *fakeTarget) live() error {
	if t.rawRef != "" && !t.page.driver.liveRawRefs[t.rawRef] {
		return fmt.Errorf("element not found for %s", t.desc)
	}
	return nil
}

func (t *fakeTarget) Click(timeout time.Duration) error {
	if err := t.live(); err != nil {
		return err
	}
	t.page.actions = append(t.page.actions, fmt.Sprintf("click %s nth=%d", t.desc, t.nth))
	return nil
}

func (t *fakeTarget) Fill(text string, timeout time.Duration) error {
	if err := t.live(); err != nil {
		return err
	}
	t.page.actions = append(t.page.actions, fmt.Sprintf("fill %s nth=%d text=%q", t.desc, t.nth, text))
	return nil
}

func (t *fakeTarget) Hover(timeout time.Duration) error {
	if err := t.live(); err != nil {
		return err
	}
	t.page.actions = append(t.page.actions, fmt.Sprintf("hover %s nth=%d", t.desc, t.nth))
	return nil
}
