package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/Th0mmi3/auto-comment/internal/entity"
)

// opTimeout ограничивает любое одиночное действие над элементом.
const opTimeout = 5 * time.Second

type element struct {
	el *rod.Element
}

var _ entity.Element = (*element)(nil)

func (e *element) bind(ctx context.Context) (*rod.Element, context.CancelFunc) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	return e.el.Context(opCtx), cancel
}

func (e *element) Text(ctx context.Context) (string, error) {
	el, cancel := e.bind(ctx)
	defer cancel()
	return el.Text()
}

func (e *element) Attribute(ctx context.Context, name string) (string, bool, error) {
	el, cancel := e.bind(ctx)
	defer cancel()

	v, err := el.Attribute(name)
	if err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (e *element) Children(ctx context.Context, xpath string) ([]entity.Element, error) {
	el, cancel := e.bind(ctx)
	defer cancel()

	found, err := el.ElementsX(xpath)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Element, 0, len(found))
	for _, child := range found {
		out = append(out, &element{el: child})
	}
	return out, nil
}

func (e *element) Click(ctx context.Context) error {
	el, cancel := e.bind(ctx)
	defer cancel()

	if err := el.ScrollIntoView(); err != nil {
		slog.DebugContext(ctx, "scroll into view failed", "err", err)
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// ForceClick — клик через JavaScript, когда элемент перекрыт оверлеем.
func (e *element) ForceClick(ctx context.Context) error {
	el, cancel := e.bind(ctx)
	defer cancel()

	if _, err := el.Eval(ForceClickScript); err != nil {
		return fmt.Errorf("js click: %w", err)
	}
	return nil
}

func (e *element) Type(ctx context.Context, text string) error {
	el, cancel := e.bind(ctx)
	defer cancel()

	// Выделяем весь текст (чтобы заменить)
	if err := el.SelectAllText(); err != nil {
		slog.DebugContext(ctx, "select all text failed", "err", err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("ошибка ввода текста: %w", err)
	}
	return nil
}
