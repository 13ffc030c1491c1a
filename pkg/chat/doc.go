// Package chat implements the dot-command front-end of the bot.
//
// A message such as ".十连" or ".banner limited" is split into an argv and
// routed to the handler registered under its first word:
//
//	d := chat.NewDispatcher()
//	chat.Register(d, g)
//	reply, err := d.Dispatch(ctx, chat.Message{User: "doctor", Text: ".十连"})
//
// Messages without the command prefix are not commands and are ignored by
// hosts. Every command has a Chinese name, as used in group chats, and an
// English alias.
package chat
