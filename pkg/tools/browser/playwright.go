package browser

import (
	"fmt"
	"io"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/quantfold/scout/pkg/config"
)

// PlaywrightDriver implements Driver on a Chromium browser managed by
// Playwright. One driver owns one browser and one browsing context.
type PlaywrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
}

// NewPlaywrightFactory returns a DriverFactory that launches Chromium with
// the given configuration. The factory is called lazily by the session's
// first action. Driver process output goes to output, typically the
// session log; it must never reach stdout, which carries tool results.
func NewPlaywrightFactory(cfg config.BrowserConfig, output io.Writer) DriverFactory {
	return func() (Driver, error) {
		return launchPlaywright(cfg, output)
	}
}

func launchPlaywright(cfg config.BrowserConfig, output io.Writer) (*PlaywrightDriver, error) {
	if output == nil {
		output = io.Discard
	}
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  output,
		Stderr:  output,
	}

	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  cfg.ViewportWidth,
			Height: cfg.ViewportHeight,
		},
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	return &PlaywrightDriver{
		pw:      pw,
		browser: browser,
		context: context,
	}, nil
}

// NewPage opens a fresh page in the driver's browsing context.
func (d *PlaywrightDriver) NewPage() (Page, error) {
	page, err := d.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return &playwrightPage{page: page}, nil
}

// SupportsScriptedSnapshot reports snapshot capability. Chromium pages
// accept the injected snapshot script.
func (d *PlaywrightDriver) SupportsScriptedSnapshot() bool {
	return true
}

// Close shuts down the browser and stops the Playwright runner.
func (d *PlaywrightDriver) Close() error {
	_ = d.context.Close()
	err := d.browser.Close()
	if stopErr := d.pw.Stop(); err == nil {
		err = stopErr
	}
	return err
}

// playwrightPage adapts a playwright.Page to the Page interface.
type playwrightPage struct {
	page playwright.Page
}

func (p *playwrightPage) Navigate(url string, timeout time.Duration) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Title() (string, error) {
	return p.page.Title()
}

func (p *playwrightPage) ScriptedSnapshot(timeout time.Duration) (string, error) {
	// Evaluate has no timeout of its own, so the bound is enforced here.
	result, err := evalBounded(timeout, func() (interface{}, error) {
		return p.page.Evaluate(snapshotScript)
	})
	if err != nil {
		return "", fmt.Errorf("snapshot script failed: %w", err)
	}
	text, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("snapshot script returned %T, want string", result)
	}
	return text, nil
}

// evalBounded runs fn and gives up once the timeout elapses. A timed-out
// evaluation keeps running in its goroutine; its eventual result is
// dropped.
func evalBounded(timeout time.Duration, fn func() (interface{}, error)) (interface{}, error) {
	type outcome struct {
		value interface{}
		err   error
	}

	done := make(chan outcome, 1)
	go func() {
		value, err := fn()
		done <- outcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-time.After(timeout):
		return nil, fmt.Errorf("timed out after %s", timeout)
	}
}

func (p *playwrightPage) AriaSnapshot(timeout time.Duration) (string, error) {
	return p.page.Locator("body").AriaSnapshot(playwright.LocatorAriaSnapshotOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (p *playwrightPage) ByRoleName(role, name string, hasName bool) Target {
	if hasName {
		return &playwrightTarget{
			locator: p.page.GetByRole(playwright.AriaRole(role), playwright.PageGetByRoleOptions{
				Name:  name,
				Exact: playwright.Bool(true),
			}),
		}
	}
	return &playwrightTarget{locator: p.page.GetByRole(playwright.AriaRole(role))}
}

func (p *playwrightPage) ByRawRef(id string) Target {
	return &playwrightTarget{
		locator: p.page.Locator(fmt.Sprintf("[%s=%q]", refAttribute, id)),
	}
}

func (p *playwrightPage) Press(key string) error {
	return p.page.Keyboard().Press(key)
}

func (p *playwrightPage) Wheel(dx, dy float64) error {
	return p.page.Mouse().Wheel(dx, dy)
}

func (p *playwrightPage) WaitForNetworkIdle(timeout time.Duration) error {
	return p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (p *playwrightPage) Content() (string, error) {
	return p.page.Content()
}

func (p *playwrightPage) Close() error {
	return p.page.Close()
}

// playwrightTarget adapts a playwright.Locator to the Target interface.
type playwrightTarget struct {
	locator playwright.Locator
}

func (t *playwrightTarget) Nth(index int) Target {
	return &playwrightTarget{locator: t.locator.Nth(index)}
}

func (t *playwrightTarget) Click(timeout time.Duration) error {
	return t.locator.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (t *playwrightTarget) Fill(text string, timeout time.Duration) error {
	return t.locator.Fill(text, playwright.LocatorFillOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (t *playwrightTarget) Hover(timeout time.Duration) error {
	return t.locator.Hover(playwright.LocatorHoverOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

// refAttribute is the DOM attribute the snapshot script stamps on every
// referenced element. Raw-ref fallback addresses elements through it; the
// stamps survive until the next navigation, which is exactly the window in
// which a stale ref may still be actionable.
const refAttribute = "data-scout-ref"

// snapshotScript walks the live DOM and serializes it in the annotated
// accessibility line format. Each interactive node gets a [ref=eN] marker
// and a matching data-scout-ref attribute; repeated role/name pairs get a
// zero-based [nth=K] marker so locators can disambiguate.
const snapshotScript = `() => {
  const INTERACTIVE = new Set(['button','link','textbox','checkbox','radio','combobox','listbox','option','menuitem','tab','slider','spinbutton','searchbox','switch']);
  const TAG_ROLES = {a:'link',button:'button',select:'combobox',textarea:'textbox',option:'option',h1:'heading',h2:'heading',h3:'heading',h4:'heading',h5:'heading',h6:'heading',img:'img',nav:'navigation',header:'banner',footer:'contentinfo',main:'main',form:'form',table:'table',ul:'list',ol:'list',li:'listitem',p:'paragraph'};
  const INPUT_ROLES = {checkbox:'checkbox',radio:'radio',range:'slider',search:'searchbox',button:'button',submit:'button',reset:'button',number:'spinbutton'};

  const roleOf = (el) => {
    const explicit = el.getAttribute('role');
    if (explicit) return explicit;
    const tag = el.tagName.toLowerCase();
    if (tag === 'input') {
      const type = (el.getAttribute('type') || 'text').toLowerCase();
      return INPUT_ROLES[type] || 'textbox';
    }
    if (tag === 'a' && !el.hasAttribute('href')) return 'generic';
    return TAG_ROLES[tag] || 'generic';
  };

  const nameOf = (el) => {
    let name = el.getAttribute('aria-label') || el.getAttribute('alt') || el.getAttribute('title') || '';
    if (!name && el.labels && el.labels.length > 0) name = el.labels[0].innerText;
    if (!name && el.childElementCount < 4) name = el.innerText || '';
    name = name.replace(/\s+/g, ' ').trim();
    return name.length > 80 ? name.slice(0, 80) : name;
  };

  const visible = (el) => {
    if (!el.getClientRects().length) return false;
    const style = getComputedStyle(el);
    return style.visibility !== 'hidden' && style.display !== 'none';
  };

  const lines = [];
  const seen = new Map();
  let counter = 0;

  const walk = (el, depth) => {
    if (el.nodeType !== Node.ELEMENT_NODE || !visible(el)) return;
    const role = roleOf(el);
    const indent = '  '.repeat(depth);
    let emitted = false;

    if (role !== 'generic') {
      const name = nameOf(el);
      let line = indent + '- ' + role;
      if (name) line += ' "' + name.replace(/"/g, "'") + '"';
      if (INTERACTIVE.has(role)) {
        counter++;
        const ref = 'e' + counter;
        el.setAttribute('data-scout-ref', ref);
        line += ' [ref=' + ref + ']';
        const key = role + '\u0000' + name;
        const nth = seen.get(key) || 0;
        if (nth > 0) line += ' [nth=' + nth + ']';
        seen.set(key, nth + 1);
      }
      lines.push(line);
      emitted = true;
    }

    for (const child of el.children) walk(child, emitted ? depth + 1 : depth);
  };

  walk(document.body, 0);
  return lines.join('\n');
}`
