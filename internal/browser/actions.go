package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Th0mmi3/auto-comment/internal/entity"
)

// Navigate открывает url в рабочей вкладке и коротко ждёт события load.
func (s *Service) Navigate(ctx context.Context, url string) error {
	if err := s.alive(); err != nil {
		return err
	}

	navCtx, cancel := context.WithTimeout(ctx, s.navTimeout)
	defer cancel()

	if err := s.page.Context(navCtx).Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}

	s.safeWaitLoad(ctx, 5*time.Second)
	return nil
}

// WaitElement ждёт появления узла по XPath.
func (s *Service) WaitElement(ctx context.Context, xpath string, timeout time.Duration) (entity.Element, error) {
	if err := s.alive(); err != nil {
		return nil, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, err := s.page.Context(waitCtx).ElementX(xpath)
	if err != nil {
		return nil, fmt.Errorf("wait %s (%s): %w", xpath, timeout, err)
	}
	return &element{el: el}, nil
}

// WaitClickable — как WaitElement, плюс элемент должен стать видимым и активным.
func (s *Service) WaitClickable(ctx context.Context, xpath string, timeout time.Duration) (entity.Element, error) {
	if err := s.alive(); err != nil {
		return nil, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, err := s.page.Context(waitCtx).ElementX(xpath)
	if err != nil {
		return nil, fmt.Errorf("wait %s (%s): %w", xpath, timeout, err)
	}
	bound := el.Context(waitCtx)
	if err := bound.WaitVisible(); err != nil {
		return nil, fmt.Errorf("wait visible %s: %w", xpath, err)
	}
	if err := bound.WaitEnabled(); err != nil {
		return nil, fmt.Errorf("wait enabled %s: %w", xpath, err)
	}
	return &element{el: el}, nil
}

// CurrentURL — адрес рабочей вкладки (для логов и отладки).
func (s *Service) CurrentURL(ctx context.Context) string {
	if s.alive() != nil {
		return ""
	}
	infoCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	info, err := s.page.Context(infoCtx).Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (s *Service) safeWaitLoad(ctx context.Context, timeout time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			slog.WarnContext(ctx, "panic while waiting for page load", "panic", r)
		}
	}()

	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.page.Context(loadCtx).WaitLoad(); err != nil {
		// SPA часто не доходит до load вовремя — дальше всё равно ждём конкретные элементы
		slog.DebugContext(ctx, "page load wait ended early", "err", err)
	}
}
