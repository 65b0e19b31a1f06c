package parser

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/eliotalders0n/chatlens/pkg/model"
	"go.uber.org/zap"
)

// jsonRecord tolerates the field spellings seen across JSON chat exports
type jsonRecord struct {
	Sender  string `json:"sender"`
	From    string `json:"from"`
	Name    string `json:"name"`
	Author  string `json:"author"`
	Text    string `json:"text"`
	Message string `json:"message"`
	Content string `json:"content"`
	Body    string `json:"body"`

	Timestamp json.RawMessage `json:"timestamp"`
	Date      json.RawMessage `json:"date"`
	CreatedAt json.RawMessage `json:"created_at"`
}

type jsonEnvelope struct {
	Messages []jsonRecord `json:"messages"`
}

// readReceiptRe matches the synthetic "Message read by X" sender label some
// exports emit in place of the real participant name.
var readReceiptRe = regexp.MustCompile(`^Message read by (.+)$`)

var jsonTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseJSON handles JSON chat exports. Records without a timestamp receive
// synthetic timestamps spaced one minute apart, counting backward from the
// export time, so ordering is preserved and repeated parses of the same
// input produce the same spacing.
func (p *Parser) parseJSON(raw string) (*Result, error) {
	records, err := decodeRecords(raw)
	if err != nil {
		return nil, &ParseError{Format: model.ChatFormatJSON, Reason: err.Error()}
	}

	exportTime := p.now()
	var messages []model.Message

	for i, rec := range records {
		text := strings.TrimSpace(firstNonEmpty(rec.Text, rec.Message, rec.Content, rec.Body))
		if text == "" {
			continue
		}

		sender := strings.TrimSpace(firstNonEmpty(rec.Sender, rec.From, rec.Name, rec.Author))
		if sender == "" {
			continue
		}

		// Reconcile read-receipt artifacts into the participant they encode
		if m := readReceiptRe.FindStringSubmatch(sender); m != nil {
			sender = strings.TrimSpace(m[1])
		}

		ts, ok := p.decodeTimestamp(rec)
		if !ok {
			ts = exportTime.Add(-time.Duration(len(records)-i) * time.Minute)
		}

		if isSystemMessage(text) {
			continue
		}

		messages = append(messages, model.Message{
			Sender:    sender,
			Text:      text,
			Timestamp: ts,
		})
	}

	return &Result{
		Messages: messages,
		Metadata: model.ChatMetadata{Format: model.ChatFormatJSON},
	}, nil
}

func decodeRecords(raw string) ([]jsonRecord, error) {
	trimmed := strings.TrimSpace(raw)

	if strings.HasPrefix(trimmed, "[") {
		var records []jsonRecord
		if err := json.Unmarshal([]byte(trimmed), &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var env jsonEnvelope
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
		return nil, err
	}
	return env.Messages, nil
}

// decodeTimestamp accepts RFC3339-ish strings and unix seconds/milliseconds
func (p *Parser) decodeTimestamp(rec jsonRecord) (time.Time, bool) {
	for _, raw := range []json.RawMessage{rec.Timestamp, rec.Date, rec.CreatedAt} {
		if len(raw) == 0 {
			continue
		}

		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			for _, layout := range jsonTimeLayouts {
				if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
					return ts, true
				}
			}
			p.logger.Warn("unparseable JSON timestamp", zap.String("value", s))
			continue
		}

		var n int64
		if err := json.Unmarshal(raw, &n); err == nil && n > 0 {
			// Millisecond epochs are 13 digits for any modern date
			if n > 1e12 {
				return time.UnixMilli(n), true
			}
			return time.Unix(n, 0), true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
