package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/eliotalders0n/chatlens/pkg/model"
	"go.uber.org/zap"
)

// mailHeaderRe matches the sender header of a mail-style export extracted
// from PDF: "Jane Doe <jane@example.com> 12 March 2021 at 14:33"
var mailHeaderRe = regexp.MustCompile(`^(.+?) <([^>]+)> (.+? at .+)$`)

// quoted-thread and boilerplate markers end accumulation for the current
// message until the next sender header.
var mailCutoffPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^>`),
	regexp.MustCompile(`^On .+ wrote:$`),
	regexp.MustCompile(`^-{4,} ?Forwarded message`),
	regexp.MustCompile(`^From: `),
	regexp.MustCompile(`^Sent from my `),
	regexp.MustCompile(`(?i)^unsubscribe\b`),
	regexp.MustCompile(`^https?://\S+$`),
}

var mailDateLayouts = []string{
	"2 January 2006 at 15:04",
	"2 January 2006 at 3:04 PM",
	"Jan 2, 2006 at 3:04 PM",
	"January 2, 2006 at 3:04 PM",
}

// parsePDFText handles text extracted from PDF mail exports. Messages are
// segmented on sender headers; metadata lines and quoted threads are not
// part of any message.
func (p *Parser) parsePDFText(raw string) (*Result, error) {
	lines := strings.Split(raw, "\n")

	var messages []model.Message
	var pending *model.Message
	skipping := false

	finalize := func() {
		if pending == nil {
			return
		}
		pending.Text = strings.TrimSpace(pending.Text)
		if pending.Text != "" && !isSystemMessage(pending.Text) {
			messages = append(messages, *pending)
		}
		pending = nil
	}

	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)

		if m := mailHeaderRe.FindStringSubmatch(trimmed); m != nil {
			finalize()
			skipping = false
			pending = &model.Message{
				Sender:    strings.TrimSpace(m[1]),
				Timestamp: p.parseMailDate(m[3]),
			}
			continue
		}

		if pending == nil || skipping {
			continue
		}

		if isMailCutoff(trimmed) {
			skipping = true
			continue
		}

		if trimmed != "" {
			if pending.Text != "" {
				pending.Text += "\n"
			}
			pending.Text += trimmed
		}
	}
	finalize()

	return &Result{
		Messages: messages,
		Metadata: model.ChatMetadata{Format: model.ChatFormatPDF},
	}, nil
}

func (p *Parser) parseMailDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range mailDateLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts
		}
	}
	p.logger.Warn("unparseable mail date, falling back to now", zap.String("date", s))
	return p.now()
}

func isMailCutoff(line string) bool {
	for _, re := range mailCutoffPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
