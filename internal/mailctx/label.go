package mailctx

import (
	"fmt"

	"github.com/ajramos/mailassist/internal/render"
)

const labelSubjectWidth = 40

// Label is the short description of a context shown next to results
func (c Context) Label() string {
	switch c.Kind {
	case KindCompose:
		return "Composing email"
	case KindViewer:
		if c.Subject == "" {
			return "Viewing email"
		}
		return "Viewing email: " + render.TruncateWidth(c.Subject, labelSubjectWidth) + "..."
	case KindMailbox:
		return fmt.Sprintf("%d emails in current view", c.MessageCount)
	default:
		return ""
	}
}
