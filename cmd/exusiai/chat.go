package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zojize/exusiai-bot/internal/presentation/tui"
	"github.com/zojize/exusiai-bot/pkg/chat"
	"github.com/zojize/exusiai-bot/pkg/runner"
	"golang.org/x/term"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the bot with dot-commands",
	Long: `Reads chat messages from stdin and answers them like the group chat bot does,
e.g. ".十连", ".卡池 exusiai" or ".保底 关". Type ".帮助" for the command list.

With --json, every input line is {"user": "...", "text": "..."} and every reply is a JSON line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		user, _ := cmd.Flags().GetString("user")
		cooldown, _ := cmd.Flags().GetDuration("cooldown")

		g, cfg, logger, closeFn, err := setup(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Watch {
			if err := g.Watch(ctx); err != nil {
				return err
			}
		}

		middleware := []chat.Middleware{chat.Recover(logger)}
		if cooldown > 0 {
			middleware = append(middleware, chat.Cooldown(cooldown, time.Now))
		}
		d := chat.NewDispatcher(chat.WithLogger(logger), chat.WithMiddleware(middleware...))
		chat.Register(d, g)

		opts := []runner.Option{runner.WithLogger(logger)}
		if jsonMode {
			opts = append(opts, runner.WithInputHandler(runner.NewJSONHandler(cmd.InOrStdin(), cmd.OutOrStdout(), user)))
		} else {
			textOpts := []runner.TextHandlerOption{runner.WithTextHandlerUser(user)}
			if term.IsTerminal(int(os.Stdin.Fd())) {
				tui.PrintBanner(cmd.OutOrStdout())
				textOpts = append(textOpts, runner.WithTextHandlerRenderer(tui.NewRenderer()))
			} else {
				textOpts = append(textOpts, runner.WithTextHandlerPrompt(""))
			}
			opts = append(opts,
				runner.WithInputHandler(runner.NewTextHandler(cmd.InOrStdin(), cmd.OutOrStdout(), textOpts...)),
				runner.WithImplicitPrefix(chat.DefaultPrefixes[0]),
			)
		}

		return runner.NewRunner(d, opts...).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().Bool("json", false, "Read and write JSON Lines")
	chatCmd.Flags().StringP("user", "u", runner.DefaultUser, "Sender of messages that do not name one")
	chatCmd.Flags().Duration("cooldown", 0, "Minimum time between two commands of the same user")
	chatCmd.Flags().BoolP("watch", "w", false, "Reload the catalog when its files change")
}
