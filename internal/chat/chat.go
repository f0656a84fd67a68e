// Package chat runs the single chat event loop. Chat platforms and the review
// handlers plug into it through small interfaces.
package chat

import "context"

type Button struct {
	Text string
	Data string
}

// Keyboard is a grid of inline buttons; nil sends a plain message.
type Keyboard [][]Button

type Callback struct {
	ID        string
	ChatID    int64
	MessageID int
	Data      string
}

type Text struct {
	ChatID           int64
	MessageID        int
	ReplyToMessageID int // 0 when the message is not a reply
	Text             string
}

type Command struct {
	ChatID    int64
	MessageID int
	Name      string
	Args      string
}

// Event carries exactly one of its fields.
type Event struct {
	Callback *Callback
	Text     *Text
	Command  *Command
}

// Platform sends and removes messages on the chat service.
type Platform interface {
	Send(ctx context.Context, chatID int64, text string, keyboard Keyboard) (int, error)
	Delete(ctx context.Context, chatID int64, messageID int) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Source delivers incoming events until Stop is called.
type Source interface {
	Events() <-chan Event
	Stop()
}

// Handler reacts to incoming events. It always runs on the runtime loop.
type Handler interface {
	HandleCallback(ctx context.Context, cb Callback)
	HandleText(ctx context.Context, msg Text)
	HandleCommand(ctx context.Context, cmd Command)
}
