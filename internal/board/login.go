package board

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Th0mmi3/auto-comment/internal/config"
	"github.com/Th0mmi3/auto-comment/internal/credential"
	"github.com/Th0mmi3/auto-comment/internal/entity"
)

// Login входит на сайт секретом кошелька. Ошибку решает вызывающий:
// по умолчанию её только логируют и работают без логина.
func Login(ctx context.Context, drv entity.Driver, loginURL string, wallet *credential.Wallet, timeouts config.Timeouts, pauses config.Pauses) error {
	slog.InfoContext(ctx, "logging in with wallet", "url", loginURL, "public_key", wallet.PublicKey.Text())

	if err := drv.Navigate(ctx, loginURL); err != nil {
		return fmt.Errorf("login page: %w", err)
	}

	btn, err := drv.WaitClickable(ctx, walletLoginXPath, timeouts.Login)
	if err != nil {
		return fmt.Errorf("wallet login button: %w", err)
	}
	if err := btn.Click(ctx); err != nil {
		return fmt.Errorf("click wallet login: %w", err)
	}
	if err := Sleep(ctx, pauses.AfterLoginClick); err != nil {
		return err
	}

	input, err := drv.WaitElement(ctx, secretInputXPath, timeouts.Login)
	if err != nil {
		return fmt.Errorf("secret key input: %w", err)
	}
	if err := input.Type(ctx, wallet.SecretKey.Text()); err != nil {
		return fmt.Errorf("enter secret key: %w", err)
	}

	submit, err := drv.WaitElement(ctx, loginSubmitXPath, timeouts.Login)
	if err != nil {
		return fmt.Errorf("login submit button: %w", err)
	}
	if err := activate(ctx, submit); err != nil {
		return fmt.Errorf("submit login: %w", err)
	}
	if err := Sleep(ctx, pauses.AfterLogin); err != nil {
		return err
	}

	slog.InfoContext(ctx, "logged in with wallet", "public_key", wallet.PublicKey.Text())
	return nil
}
