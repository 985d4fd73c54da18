package board

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Th0mmi3/auto-comment/internal/entity"
)

var errNotFound = errors.New("element not found")

type fakeElement struct {
	text     string
	textErr  error
	attrs    map[string]string
	attrErr  error
	children []entity.Element
	childErr error

	clickErr error
	forceErr error
	typeErr  error

	clicks int
	forces int
	typed  []string
}

func (e *fakeElement) Text(context.Context) (string, error) { return e.text, e.textErr }

func (e *fakeElement) Attribute(_ context.Context, name string) (string, bool, error) {
	if e.attrErr != nil {
		return "", false, e.attrErr
	}
	v, ok := e.attrs[name]
	return v, ok, nil
}

func (e *fakeElement) Children(context.Context, string) ([]entity.Element, error) {
	return e.children, e.childErr
}

func (e *fakeElement) Click(context.Context) error {
	e.clicks++
	return e.clickErr
}

func (e *fakeElement) ForceClick(context.Context) error {
	e.forces++
	return e.forceErr
}

func (e *fakeElement) Type(_ context.Context, text string) error {
	if e.typeErr != nil {
		return e.typeErr
	}
	e.typed = append(e.typed, text)
	return nil
}

type fakeDriver struct {
	elements map[string]*fakeElement
	waitErr  map[string]error
	navErr   error
	panicOn  string

	navigated []string
	waited    []string
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		elements: make(map[string]*fakeElement),
		waitErr:  make(map[string]error),
	}
}

func (d *fakeDriver) Navigate(_ context.Context, url string) error {
	d.navigated = append(d.navigated, url)
	return d.navErr
}

func (d *fakeDriver) WaitElement(ctx context.Context, xpath string, _ time.Duration) (entity.Element, error) {
	return d.wait(ctx, xpath)
}

func (d *fakeDriver) WaitClickable(ctx context.Context, xpath string, _ time.Duration) (entity.Element, error) {
	return d.wait(ctx, xpath)
}

func (d *fakeDriver) wait(_ context.Context, xpath string) (entity.Element, error) {
	d.waited = append(d.waited, xpath)
	if xpath == d.panicOn {
		panic("driver blew up")
	}
	if err := d.waitErr[xpath]; err != nil {
		return nil, err
	}
	el, ok := d.elements[xpath]
	if !ok {
		return nil, fmt.Errorf("%s: %w", xpath, errNotFound)
	}
	return el, nil
}

func (d *fakeDriver) sawWait(xpath string) bool {
	return slices.Contains(d.waited, xpath)
}

func card(id, text string) *fakeElement {
	attrs := map[string]string{}
	if id != "" {
		attrs["id"] = id
	}
	return &fakeElement{text: text, attrs: attrs}
}

func boardWith(cards ...*fakeElement) *fakeDriver {
	d := newFakeDriver()
	children := make([]entity.Element, 0, len(cards))
	for _, c := range cards {
		children = append(children, c)
	}
	d.elements[coinListXPath] = &fakeElement{children: children}
	return d
}

// coinPage — страница монеты, на которой все шаги проходят.
func coinPage(rawName string) *fakeDriver {
	d := newFakeDriver()
	d.elements[coinNameXPath] = &fakeElement{text: rawName}
	d.elements[openReplyXPath] = &fakeElement{}
	d.elements[replyBoxXPath] = &fakeElement{}
	d.elements[submitXPath] = &fakeElement{}
	return d
}
