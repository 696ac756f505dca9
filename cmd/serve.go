package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/vocabsrs/internal/notify"
	"github.com/example/vocabsrs/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the due-word reminder scheduler until interrupted",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			if !a.cfg.Reminders.Enabled {
				a.logger.Info("reminders disabled, nothing to serve")
				return nil
			}

			var notifier scheduler.Notifier = notify.NewLogNotifier(a.logger)
			if a.cfg.Telegram.Token != "" {
				tg, err := notify.NewTelegramNotifier(a.cfg.Telegram.Token, a.logger)
				if err != nil {
					return err
				}
				notifier = tg
			} else {
				a.logger.Warn("TELEGRAM_BOT_TOKEN not set, reminders go to the log")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s := scheduler.New(a.records, notifier, a.cfg.Reminders, a.logger)
			if err := s.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			s.Stop()
			a.logger.Info("scheduler stopped", zap.NamedError("cause", context.Cause(ctx)))
			return nil
		}),
	}
}
