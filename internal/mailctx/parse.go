package mailctx

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	unitSep   = "\x1f"
	recordSep = "\x1e"
)

// parseSelection reads "<count>" or "<count> US sender US subject US content"
func parseSelection(out string) (int, MessageSummary, error) {
	fields := strings.SplitN(out, unitSep, 4)
	count, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return 0, MessageSummary{}, fmt.Errorf("unexpected selection output %q", truncateRaw(out))
	}
	if count == 0 {
		return 0, MessageSummary{}, nil
	}
	if len(fields) != 4 {
		return 0, MessageSummary{}, fmt.Errorf("selection output has %d fields, want 4", len(fields))
	}
	return count, MessageSummary{Sender: fields[1], Subject: fields[2], Content: fields[3]}, nil
}

// parseCompose reads "subject US content"
func parseCompose(out string) (content, subject string, err error) {
	fields := strings.SplitN(out, unitSep, 2)
	if len(fields) != 2 {
		return "", "", fmt.Errorf("unexpected compose output %q", truncateRaw(out))
	}
	return fields[1], fields[0], nil
}

// parseMailbox reads records of "sender US subject US content" separated by RS.
// A fragment without the three fields continues the previous message's content.
func parseMailbox(out string) ([]MessageSummary, error) {
	if out == "" {
		return nil, nil
	}
	records := strings.Split(out, recordSep)
	msgs := make([]MessageSummary, 0, len(records))
	for i, rec := range records {
		fields := strings.SplitN(rec, unitSep, 3)
		if len(fields) != 3 {
			if len(msgs) == 0 {
				return nil, fmt.Errorf("message %d has %d fields, want 3", i+1, len(fields))
			}
			msgs[len(msgs)-1].Content += " " + rec
			continue
		}
		msgs = append(msgs, MessageSummary{Sender: fields[0], Subject: fields[1], Content: fields[2]})
	}
	return msgs, nil
}

func truncateRaw(s string) string {
	const limit = 64
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
