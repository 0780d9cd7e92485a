// Package mailctx describes where processable text comes from and probes Mail.app for it.
package mailctx

import (
	"fmt"
	"strings"
)

// Kind is the active variant of a Context
type Kind string

const (
	KindCompose Kind = "compose"
	KindViewer  Kind = "viewer"
	KindMailbox Kind = "mailbox"
	KindNone    Kind = "none"
	KindError   Kind = "error"
)

// ReasonNotActive is the reason recorded when Mail is not the frontmost application
const ReasonNotActive = "not_active"

// ReasonNoMessage is the reason recorded when neither a selection nor a compose window exists
const ReasonNoMessage = "no email selected or compose window open"

// MessageSummary is a snapshot of one selected message
type MessageSummary struct {
	Sender  string `json:"sender"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}

// Context is a tagged variant; build it with the constructor functions so that
// exactly one variant's fields are populated.
type Context struct {
	Kind         Kind             `json:"type"`
	Content      string           `json:"content,omitempty"`
	Subject      string           `json:"subject,omitempty"`
	Sender       string           `json:"sender,omitempty"`
	MessageCount int              `json:"messageCount,omitempty"`
	Messages     []MessageSummary `json:"messages,omitempty"`
	Reason       string           `json:"reason,omitempty"`
}

// Compose is the context of a message being written
func Compose(content, subject string) Context {
	return Context{Kind: KindCompose, Content: content, Subject: subject}
}

// Viewer is the context of a message being read
func Viewer(content, subject, sender string) Context {
	return Context{Kind: KindViewer, Content: content, Subject: subject, Sender: sender}
}

// Mailbox is the context of several selected messages
func Mailbox(messages []MessageSummary) Context {
	msgs := append([]MessageSummary(nil), messages...)
	return Context{Kind: KindMailbox, MessageCount: len(msgs), Messages: msgs}
}

// None means there is no mail context; reason says why
func None(reason string) Context {
	return Context{Kind: KindNone, Reason: reason}
}

// Failed means the probe itself failed
func Failed(reason string) Context {
	return Context{Kind: KindError, Reason: reason}
}

// HasContent reports whether the context carries message content
func (c Context) HasContent() bool {
	return c.Kind == KindCompose || c.Kind == KindViewer
}

// IsMail reports whether the context came from an actual Mail window
func (c Context) IsMail() bool {
	return c.Kind == KindCompose || c.Kind == KindViewer || c.Kind == KindMailbox
}

// Text returns the text this context contributes to a request
func (c Context) Text() string {
	switch c.Kind {
	case KindCompose, KindViewer:
		return c.Content
	case KindMailbox:
		return FormatThread(c.Messages)
	default:
		return ""
	}
}

func (c Context) String() string {
	switch c.Kind {
	case KindCompose:
		return fmt.Sprintf("compose(subject=%q, %d chars)", c.Subject, len(c.Content))
	case KindViewer:
		return fmt.Sprintf("viewer(from=%q, subject=%q, %d chars)", c.Sender, c.Subject, len(c.Content))
	case KindMailbox:
		return fmt.Sprintf("mailbox(%d messages)", c.MessageCount)
	default:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Reason)
	}
}

// FormatThread renders messages as a numbered transcript in selection order
func FormatThread(messages []MessageSummary) string {
	if len(messages) == 0 {
		return ""
	}
	parts := make([]string, 0, len(messages))
	for i, m := range messages {
		parts = append(parts, fmt.Sprintf("Email %d:\nFrom: %s\nSubject: %s\nContent: %s\n\n---",
			i+1, m.Sender, m.Subject, m.Content))
	}
	return strings.Join(parts, "\n")
}
