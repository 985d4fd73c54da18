package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
)

// ErrClosed возвращается любым действием после Close.
var ErrClosed = errors.New("browser session is closed")

// Options — параметры запуска браузера.
type Options struct {
	Headless bool
	// ProfileRoot — каталог, в котором создаётся временный профиль profile_<uuid>.
	ProfileRoot string
	// ChromeBin — путь к бинарнику; пусто = rod сам найдёт или скачает Chromium.
	ChromeBin       string
	NavigateTimeout time.Duration
}

// Service — единственная сессия браузера процесса. Сканер и сценарий ответа
// только используют её через entity.Driver; закрывает её только владелец.
type Service struct {
	browser    *rod.Browser
	launch     *launcher.Launcher
	page       *rod.Page
	profileDir string
	navTimeout time.Duration

	closed    atomic.Bool
	closeOnce sync.Once
}

// Open запускает браузер с изолированным профилем и открывает рабочую вкладку.
func Open(ctx context.Context, opts Options) (*Service, error) {
	root := opts.ProfileRoot
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve profile root: %w", err)
	}
	profileDir := ProfileDir(absRoot, uuid.NewString())

	// 1. Настройка лаунчера
	launch := launcher.New().
		Leakless(true).
		Headless(opts.Headless).
		UserDataDir(profileDir)
	if opts.ChromeBin != "" {
		launch = launch.Bin(opts.ChromeBin)
	}
	if opts.Headless {
		launch = launch.NoSandbox(true).Set("disable-gpu")
	}
	slog.DebugContext(ctx, "launching browser", "profile", profileDir, "headless", opts.Headless)

	controlURL, err := launch.Launch()
	if err != nil {
		_ = os.RemoveAll(profileDir)
		return nil, fmt.Errorf("не удалось запустить браузер: %w", err)
	}

	// 2. Подключение. Контекст процесса к браузеру не привязываем: после Ctrl+C
	// он уже отменён, а Close всё равно должен отработать.
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		launch.Kill()
		_ = os.RemoveAll(profileDir)
		return nil, fmt.Errorf("не удалось подключиться: %w", err)
	}

	s := &Service{
		browser:    browser,
		launch:     launch,
		profileDir: profileDir,
		navTimeout: opts.NavigateTimeout,
	}
	if s.navTimeout <= 0 {
		s.navTimeout = 30 * time.Second
	}

	// 3. Рабочая вкладка
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("ошибка создания вкладки: %w", err)
	}
	scale := 1.0
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  1920,
		Height: 1080,
		Scale:  &scale,
		Mobile: false,
	}); err != nil {
		// Не критично
		slog.WarnContext(ctx, "failed to set viewport", "err", err)
	}
	s.page = page

	return s, nil
}

// ProfileDir returns the per-run profile path under root.
func ProfileDir(root, runID string) string {
	return filepath.Join(root, "profile_"+runID)
}

// ProfileDir — путь к временному профилю этой сессии.
func (s *Service) ProfileDir() string { return s.profileDir }

// Close закрывает браузер и удаляет временный профиль. Повторный вызов ничего не делает.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		err = s.shutdown()
	})
	return err
}

func (s *Service) shutdown() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while closing browser: %v", r)
		}
	}()

	if s.browser != nil {
		if cerr := s.browser.Close(); cerr != nil {
			err = fmt.Errorf("close browser: %w", cerr)
		}
	}
	if s.launch != nil {
		s.launch.Kill()
		s.launch.Cleanup()
	}
	if s.profileDir != "" {
		if rerr := os.RemoveAll(s.profileDir); rerr != nil && err == nil {
			err = fmt.Errorf("remove profile: %w", rerr)
		}
	}
	return err
}

func (s *Service) alive() error {
	if s.closed.Load() || s.page == nil {
		return ErrClosed
	}
	return nil
}
