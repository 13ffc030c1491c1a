// Package runner drives a chat.Dispatcher from a line-oriented stream.
//
// It is the terminal and pipe host of the bot: every input line is a chat
// message, every command produces one reply. Two IOHandlers are provided:
//
//   - TextHandler reads plain lines and prints replies, optionally rendered.
//   - JSONHandler speaks JSON Lines: {"user": "...", "text": ".十连"} in,
//     {"text": "..."} out. Useful for wiring the bot behind another process.
//
// Usage:
//
//	d := chat.NewDispatcher()
//	chat.Register(d, g)
//	r := runner.NewRunner(d, runner.WithInputHandler(runner.NewJSONHandler(os.Stdin, os.Stdout, "")))
//	err := r.Run(ctx)
package runner
