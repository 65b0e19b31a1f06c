package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/eliotalders0n/chatlens/pkg/model"
	"go.uber.org/zap"
)

// ParseError is returned when no messages could be extracted from the input.
// It is the only parser-level failure; malformed lines and bad timestamps
// degrade gracefully instead.
type ParseError struct {
	Format model.ChatFormat
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse %s transcript: %s", e.Format, e.Reason)
}

// Result is the parser output: canonical messages plus transcript metadata
type Result struct {
	Messages []model.Message
	Metadata model.ChatMetadata
}

// Parser converts raw chat exports into canonical messages
type Parser struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewParser creates a new Parser
func NewParser(logger *zap.Logger) *Parser {
	return &Parser{
		logger: logger,
		now:    time.Now,
	}
}

const dateScanWindow = 50

var (
	// dash-delimited export line: "12/3/21, 14:05 - Alice: hello"
	dashLineRe = regexp.MustCompile(`^(\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}),? (\d{1,2}:\d{2}(?::\d{2})?(?:\s?[APap]\.?[Mm]\.?)?) - ([^:]+): (.*)$`)

	// bracket-delimited export line: "[12/3/21, 14:05:33] Alice: hello"
	bracketLineRe = regexp.MustCompile(`^\[(\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}),? (\d{1,2}:\d{2}(?::\d{2})?(?:\s?[APap]\.?[Mm]\.?)?)\] ([^:]+): (.*)$`)

	// dash-delimited notice line without a sender, e.g. group events
	dashNoticeRe = regexp.MustCompile(`^(\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}),? (\d{1,2}:\d{2}(?::\d{2})?(?:\s?[APap]\.?[Mm]\.?)?) - (.*)$`)

	dateTokenRe = regexp.MustCompile(`(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{2,4})`)
)

// systemMessagePatterns match non-conversational export artifacts. A message
// matching any of them is dropped atomically at finalization time, so a
// multi-line system notice never leaks partial lines into the corpus.
var systemMessagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<media omitted>`),
	regexp.MustCompile(`(?i)\b(image|video|audio|sticker|document|gif|contact card) omitted`),
	regexp.MustCompile(`(?i)missed (voice|video) call`),
	regexp.MustCompile(`(?i)\b(voice|video) call\b.*\b(ended|no answer)`),
	regexp.MustCompile(`(?i)end-to-end encrypted`),
	regexp.MustCompile(`(?i)created (this )?group`),
	regexp.MustCompile(`(?i)(added|removed) you\b`),
	regexp.MustCompile(`(?i)joined using this group's invite link`),
	regexp.MustCompile(`(?i)left the group`),
	regexp.MustCompile(`(?i)changed the (group|subject|icon)`),
	regexp.MustCompile(`(?i)changed to a new number`),
	regexp.MustCompile(`(?i)security code.*changed`),
	regexp.MustCompile(`(?i)this message was deleted`),
	regexp.MustCompile(`(?i)you deleted this message`),
	regexp.MustCompile(`(?i)pinned a message`),
}

// Parse converts raw export content into canonical messages and metadata.
// It fails only when zero messages can be extracted.
func (p *Parser) Parse(raw string, hint model.ChatFormat) (*Result, error) {
	p.logger.Info("parsing transcript",
		zap.String("format_hint", string(hint)),
		zap.Int("size_bytes", len(raw)),
	)

	var res *Result
	var err error

	switch hint {
	case model.ChatFormatJSON:
		res, err = p.parseJSON(raw)
	case model.ChatFormatPDF:
		res, err = p.parsePDFText(raw)
	default:
		res, err = p.parsePlain(raw)
	}
	if err != nil {
		return nil, err
	}

	if len(res.Messages) == 0 {
		p.logger.Warn("no messages extracted", zap.String("format_hint", string(hint)))
		return nil, &ParseError{Format: hint, Reason: "no messages found"}
	}

	finalizeMetadata(res)

	p.logger.Info("transcript parsed",
		zap.Int("messages", len(res.Messages)),
		zap.Int("participants", len(res.Metadata.Participants)),
		zap.String("date_format", string(res.Metadata.DateFormat)),
	)

	return res, nil
}

// parsePlain handles dash-delimited and bracket-delimited text exports
func (p *Parser) parsePlain(raw string) (*Result, error) {
	lines := strings.Split(raw, "\n")

	format, assumed := p.detectDateFormat(lines)

	var messages []model.Message
	var pending *model.Message

	finalize := func() {
		if pending == nil {
			return
		}
		if !isSystemMessage(pending.Text) {
			pending.Text = strings.TrimSpace(pending.Text)
			messages = append(messages, *pending)
		}
		pending = nil
	}

	for _, line := range lines {
		line = strings.TrimRight(line, "\r")

		var m []string
		if m = dashLineRe.FindStringSubmatch(line); m == nil {
			m = bracketLineRe.FindStringSubmatch(line)
		}

		if m != nil {
			finalize()
			ts := p.parseTimestamp(m[1], m[2], format)
			pending = &model.Message{
				Sender:    strings.TrimSpace(m[3]),
				Text:      strings.TrimSpace(m[4]),
				Timestamp: ts,
			}
			continue
		}

		// Sender-less header lines are export notices, not conversation
		if dashNoticeRe.MatchString(line) {
			finalize()
			continue
		}

		// Anything else continues the previous message
		if pending != nil && strings.TrimSpace(line) != "" {
			pending.Text += "\n" + strings.TrimSpace(line)
		}
	}
	finalize()

	return &Result{
		Messages: messages,
		Metadata: model.ChatMetadata{
			Format:            model.ChatFormatPlain,
			DateFormat:        format,
			DateFormatAssumed: assumed,
		},
	}, nil
}

// detectDateFormat scans the first dateScanWindow lines for a date token
// whose day field exceeds 12. Without such evidence it defaults to DMY and
// reports the ambiguity via the assumed flag.
func (p *Parser) detectDateFormat(lines []string) (model.DateFormat, bool) {
	limit := len(lines)
	if limit > dateScanWindow {
		limit = dateScanWindow
	}

	for i := 0; i < limit; i++ {
		m := dateTokenRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		first, _ := strconv.Atoi(m[1])
		second, _ := strconv.Atoi(m[2])
		if first > 12 {
			return model.DateFormatDMY, false
		}
		if second > 12 {
			return model.DateFormatMDY, false
		}
	}

	p.logger.Warn("no disambiguating date evidence in sample window, assuming DMY")
	return model.DateFormatDMY, true
}

// parseTimestamp builds a timestamp from date and time tokens. A token that
// fails to parse falls back to now; this is logged, never fatal.
func (p *Parser) parseTimestamp(dateStr, timeStr string, format model.DateFormat) time.Time {
	m := dateTokenRe.FindStringSubmatch(dateStr)
	if m == nil {
		p.logger.Warn("unparseable date token, falling back to now", zap.String("date", dateStr))
		return p.now()
	}

	first, _ := strconv.Atoi(m[1])
	second, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}

	day, month := first, second
	if format == model.DateFormatMDY {
		day, month = second, first
	}

	hour, minute, sec, ok := parseClock(timeStr)
	if !ok {
		p.logger.Warn("unparseable time token, falling back to now", zap.String("time", timeStr))
		return p.now()
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		p.logger.Warn("date fields out of range, falling back to now",
			zap.Int("day", day),
			zap.Int("month", month),
		)
		return p.now()
	}

	return time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.Local)
}

var clockRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?(?:\s?([APap])\.?[Mm]\.?)?$`)

func parseClock(timeStr string) (hour, minute, sec int, ok bool) {
	m := clockRe.FindStringSubmatch(strings.TrimSpace(timeStr))
	if m == nil {
		return 0, 0, 0, false
	}

	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		sec, _ = strconv.Atoi(m[3])
	}

	switch strings.ToLower(m[4]) {
	case "p":
		if hour < 12 {
			hour += 12
		}
	case "a":
		if hour == 12 {
			hour = 0
		}
	}

	if hour > 23 || minute > 59 || sec > 59 {
		return 0, 0, 0, false
	}
	return hour, minute, sec, true
}

func isSystemMessage(text string) bool {
	for _, re := range systemMessagePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// finalizeMetadata fills participant and date-range metadata from the
// extracted messages.
func finalizeMetadata(res *Result) {
	seen := make(map[string]bool)
	var participants []string

	start := res.Messages[0].Timestamp
	end := res.Messages[0].Timestamp

	for _, msg := range res.Messages {
		if !seen[msg.Sender] {
			seen[msg.Sender] = true
			participants = append(participants, msg.Sender)
		}
		if msg.Timestamp.Before(start) {
			start = msg.Timestamp
		}
		if msg.Timestamp.After(end) {
			end = msg.Timestamp
		}
	}

	res.Metadata.Participants = participants
	res.Metadata.TotalMessages = len(res.Messages)
	res.Metadata.StartDate = start
	res.Metadata.EndDate = end
}
