package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/Th0mmi3/auto-comment/internal/board"
	"github.com/Th0mmi3/auto-comment/internal/entity"
	"github.com/Th0mmi3/auto-comment/internal/logging"
	"github.com/Th0mmi3/auto-comment/internal/metrics"
)

// Scanner отдаёт текущие монеты доски. Ошибки он глотает сам.
type Scanner interface {
	Scan(ctx context.Context) []entity.Coin
}

// Workflow проходит сценарий ответа для одной монеты.
type Workflow interface {
	Act(ctx context.Context, coin entity.Coin) entity.Result
}

// Tracker — набор уже обработанных монет.
type Tracker interface {
	IsNewAndMark(ctx context.Context, id string) (bool, error)
}

// State — состояние цикла опроса.
type State string

const (
	StateScanning State = "scanning"
	StateBackoff  State = "backoff"
)

// Options задаёт темп цикла.
type Options struct {
	PollInterval    time.Duration
	BackoffInterval time.Duration
	// Limiter разносит ответы во времени; nil = без ограничения.
	Limiter *rate.Limiter
	Metrics *metrics.Metrics
}

// Orchestrator связывает сканер, трекер и сценарий ответа.
// Всё выполняется в одной горутине: сессия браузера одна.
type Orchestrator struct {
	scanner  Scanner
	workflow Workflow
	tracker  Tracker
	opts     Options

	sleep func(ctx context.Context, d time.Duration) error
}

func New(scanner Scanner, workflow Workflow, tracker Tracker, opts Options) *Orchestrator {
	return &Orchestrator{
		scanner:  scanner,
		workflow: workflow,
		tracker:  tracker,
		opts:     opts,
		sleep:    board.Sleep,
	}
}

// Run крутит цикл Scanning -> (пауза) -> Scanning, а после сбоя пачки уходит в
// BackoffSleep на длинный интервал. Возвращается только при отмене ctx.
func (o *Orchestrator) Run(ctx context.Context) {
	slog.InfoContext(ctx, "start tracking board",
		"poll_interval", o.opts.PollInterval, "backoff_interval", o.opts.BackoffInterval)

	state := StateScanning
	for ctx.Err() == nil {
		o.opts.Metrics.SetState(string(state), string(StateScanning), string(StateBackoff))

		switch state {
		case StateScanning:
			if err := o.RunBatch(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				slog.ErrorContext(ctx, "error accessing board", "err", err)
				logging.Status("⚠️ Error accessing board: %v (retrying in %s)", err, o.opts.BackoffInterval)
				o.opts.Metrics.IncBatchFailure()
				state = StateBackoff
				continue
			}
			slog.DebugContext(ctx, "waiting for next iteration", "in", o.opts.PollInterval)
			_ = o.sleep(ctx, o.opts.PollInterval)

		case StateBackoff:
			_ = o.sleep(ctx, o.opts.BackoffInterval)
			state = StateScanning
		}
	}
	slog.InfoContext(ctx, "tracking stopped")
}

// RunBatch — одна итерация: скан, фильтр через трекер, ответ на каждую новую монету
// в порядке доски. Ошибка означает сбой всей пачки.
func (o *Orchestrator) RunBatch(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in batch: %v", r)
		}
	}()

	coins := o.scanner.Scan(ctx)
	for _, coin := range coins {
		// прерывание проверяем между монетами, а не только на входе в цикл
		if ctx.Err() != nil {
			return nil
		}

		isNew, err := o.tracker.IsNewAndMark(ctx, coin.ID)
		if err != nil {
			return fmt.Errorf("seen-set: %w", err)
		}
		if !isNew {
			continue
		}

		o.opts.Metrics.IncNewCoin()
		slog.InfoContext(ctx, "new coin detected", "id", coin.ID, "name", coin.DisplayName, "url", coin.DetailURL)
		logging.Status("🆕 New coin detected, URL: %s", coin.DetailURL)

		if o.opts.Limiter != nil {
			if err := o.opts.Limiter.Wait(ctx); err != nil {
				// отмена во время ожидания лимитера; монета уже помечена и не повторится
				slog.WarnContext(ctx, "reply skipped while waiting for rate limiter", "id", coin.ID, "err", err)
				return nil
			}
		}

		o.report(ctx, o.workflow.Act(ctx, coin))
	}
	return nil
}

func (o *Orchestrator) report(ctx context.Context, res entity.Result) {
	o.opts.Metrics.ObserveResult(res.Outcome.String(), string(res.Stage))

	if res.OK() {
		slog.InfoContext(ctx, "comment posted", "id", res.Coin.ID, "name", res.Name, "text", res.Text)
		logging.Status("💬 Comment posted on %s: %s", res.Name, res.Text)
		return
	}
	slog.ErrorContext(ctx, "failed to post comment",
		"id", res.Coin.ID, "url", res.Coin.DetailURL, "stage", res.Stage, "err", res.Err)
	logging.Status("❌ Failed to post comment on %s at %s: %v", res.Coin.DetailURL, res.Stage, res.Err)
}
