package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Th0mmi3/auto-comment/internal/config"
	"github.com/Th0mmi3/auto-comment/internal/entity"
)

// ErrEmptyName — на странице монеты не нашлось имени до скобки.
var ErrEmptyName = errors.New("coin name is empty")

// Replier проходит сценарий ответа на странице одной монеты.
type Replier struct {
	Driver   entity.Driver
	Timeouts config.Timeouts
	Pauses   config.Pauses
}

// CanonicalName отрезает всё начиная с первой "(" (там supply) и обрезает пробелы.
func CanonicalName(text string) string {
	name, _, _ := strings.Cut(text, "(")
	return strings.TrimSpace(name)
}

// ReplyText — текст, который уходит в комментарий.
func ReplyText(name string) string {
	return fmt.Sprintf("This coin, %s, looks interesting!", name)
}

type step struct {
	stage entity.Stage
	run   func(ctx context.Context) error
}

// Act runs the five reply stages once. The first failing stage stops the run and is
// reported in the Failed result; nothing is retried.
func (r *Replier) Act(ctx context.Context, coin entity.Coin) (res entity.Result) {
	var (
		name     string
		text     string
		replyBox entity.Element
		current  = entity.StageNavigate
	)
	defer func() {
		if p := recover(); p != nil {
			res = entity.Failed(coin, name, current, fmt.Errorf("panic: %v", p))
		}
	}()

	steps := []step{
		{entity.StageNavigate, func(ctx context.Context) error {
			slog.InfoContext(ctx, "visiting coin page", "url", coin.DetailURL)
			if err := r.Driver.Navigate(ctx, coin.DetailURL); err != nil {
				return err
			}
			return Sleep(ctx, r.Pauses.AfterCoinLoad)
		}},
		{entity.StageExtractName, func(ctx context.Context) error {
			el, err := r.Driver.WaitElement(ctx, coinNameXPath, r.Timeouts.Element)
			if err != nil {
				return err
			}
			raw, err := el.Text(ctx)
			if err != nil {
				return fmt.Errorf("read name: %w", err)
			}
			name = CanonicalName(raw)
			if name == "" {
				return fmt.Errorf("%w (raw %q)", ErrEmptyName, raw)
			}
			slog.DebugContext(ctx, "coin name extracted", "id", coin.ID, "name", name)
			return nil
		}},
		{entity.StageOpenReply, func(ctx context.Context) error {
			btn, err := r.Driver.WaitClickable(ctx, openReplyXPath, r.Timeouts.Element)
			if err != nil {
				return err
			}
			if err := btn.Click(ctx); err != nil {
				return fmt.Errorf("click post a reply: %w", err)
			}
			return Sleep(ctx, r.Pauses.AfterOpenReply)
		}},
		{entity.StageEnterText, func(ctx context.Context) error {
			var err error
			replyBox, err = r.Driver.WaitElement(ctx, replyBoxXPath, r.Timeouts.Element)
			if err != nil {
				return err
			}
			text = ReplyText(name)
			if err := replyBox.Type(ctx, text); err != nil {
				return err
			}
			slog.DebugContext(ctx, "reply text entered", "id", coin.ID, "text", text)
			return Sleep(ctx, r.Pauses.AfterTyping)
		}},
		{entity.StageSubmit, func(ctx context.Context) error {
			btn, err := r.Driver.WaitClickable(ctx, submitXPath, r.Timeouts.Submit)
			if err != nil {
				return err
			}
			if err := activate(ctx, btn); err != nil {
				return err
			}
			return Sleep(ctx, r.Pauses.AfterSubmit)
		}},
	}

	for _, st := range steps {
		current = st.stage
		if err := ctx.Err(); err != nil {
			return entity.Failed(coin, name, st.stage, err)
		}
		if err := st.run(ctx); err != nil {
			slog.DebugContext(ctx, "reply stage failed", "id", coin.ID, "stage", st.stage, "err", err)
			return entity.Failed(coin, name, st.stage, err)
		}
	}
	return entity.Posted(coin, name, text)
}

// activate кликает обычным способом, а если клик не прошёл (элемент перекрыт) — через JS.
func activate(ctx context.Context, el entity.Element) error {
	err := el.Click(ctx)
	if err == nil {
		return nil
	}
	slog.WarnContext(ctx, "normal click failed, forcing", "err", err)
	if ferr := el.ForceClick(ctx); ferr != nil {
		return fmt.Errorf("все методы клика провалились: %w", errors.Join(err, ferr))
	}
	return nil
}
