package board

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Th0mmi3/auto-comment/internal/entity"
	"github.com/Th0mmi3/auto-comment/internal/metrics"
)

// Scanner читает текущий список монет с доски.
type Scanner struct {
	Driver      entity.Driver
	BoardURL    string
	URLTemplate string
	// Wait — сколько ждать контейнер списка.
	Wait time.Duration
	// Pause — пауза после перехода, пока клиент дорисовывает список.
	Pause   time.Duration
	Metrics *metrics.Metrics
}

// Scan returns the coins currently on the board in page order. It never fails:
// any error is logged and reported as an empty board.
func (s *Scanner) Scan(ctx context.Context) (coins []entity.Coin) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic while scanning board", "panic", r)
			coins = nil
			s.Metrics.ObserveScan(false, time.Since(start))
		}
	}()

	slog.InfoContext(ctx, "fetching coin board", "url", s.BoardURL)
	coins, err := s.scan(ctx)
	s.Metrics.ObserveScan(err == nil, time.Since(start))
	if err != nil {
		slog.ErrorContext(ctx, "error retrieving coins", "err", err)
		return nil
	}
	slog.InfoContext(ctx, "coins detected on board", "count", len(coins))
	return coins
}

func (s *Scanner) scan(ctx context.Context) ([]entity.Coin, error) {
	if err := s.Driver.Navigate(ctx, s.BoardURL); err != nil {
		return nil, err
	}
	if err := Sleep(ctx, s.Pause); err != nil {
		return nil, err
	}

	list, err := s.Driver.WaitElement(ctx, coinListXPath, s.Wait)
	if err != nil {
		return nil, fmt.Errorf("coin list: %w", err)
	}
	cards, err := list.Children(ctx, coinCardXPath)
	if err != nil {
		return nil, fmt.Errorf("coin cards: %w", err)
	}

	coins := make([]entity.Coin, 0, len(cards))
	index := make(map[string]int, len(cards))
	for i, card := range cards {
		id, _, err := card.Attribute(ctx, coinIDAttr)
		if err != nil {
			return nil, fmt.Errorf("card %d id: %w", i, err)
		}
		text, err := card.Text(ctx)
		if err != nil {
			return nil, fmt.Errorf("card %d text: %w", i, err)
		}
		id = strings.TrimSpace(id)
		name := FirstLine(text)
		if id == "" || name == "" {
			continue
		}

		coin := entity.Coin{
			ID:          id,
			DisplayName: name,
			DetailURL:   entity.DetailURLFor(s.URLTemplate, id),
		}
		// дубль в одном скане: позиция первой карточки, данные последней
		if at, ok := index[id]; ok {
			coins[at] = coin
			continue
		}
		index[id] = len(coins)
		coins = append(coins, coin)
		slog.DebugContext(ctx, "coin detected", "id", coin.ID, "name", coin.DisplayName, "url", coin.DetailURL)
	}
	return coins, nil
}

// FirstLine returns the first line of a card's text, trimmed.
func FirstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return strings.TrimSpace(line)
}
