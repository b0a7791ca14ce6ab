// Package qrcode builds the informational payload carried by a ticket's QR code,
// renders it as a PNG and describes scanned payloads for display.
package qrcode

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/chris/transit-tickets/pkg/models"
	goqrcode "github.com/skip2/go-qrcode"
)

const (
	ticketPrefix = "TICKET"
	dateLayout   = "2006-01-02"

	// DefaultSize is the PNG edge length in pixels.
	DefaultSize = 512
)

// Encode returns the ticket's payload: TICKET|id|price|purchase-date|status.
func Encode(t *models.Ticket) string {
	purchased := time.UnixMilli(t.PurchaseTime).UTC().Format(dateLayout)
	return strings.Join([]string{ticketPrefix, t.TicketId, fmt.Sprint(t.Price), purchased, string(t.Status)}, "|")
}

// PNG renders content as a QR code image of size x size pixels.
func PNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := goqrcode.Encode(content, goqrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}

// Format names the shape of a scanned payload.
type Format string

const (
	FormatJSON      Format = "json"
	FormatDelimited Format = "delimited"
	FormatPlain     Format = "plain"
)

// Description is a scanned payload broken into displayable fields.
type Description struct {
	Format Format   `json:"format"`
	Fields []string `json:"fields"`
	Raw    string   `json:"raw"`
}

// Describe recognises JSON objects, "|" or "," delimited payloads and plain text.
func Describe(content string) Description {
	trimmed := strings.TrimSpace(content)

	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		var obj map[string]any
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			keys := make([]string, 0, len(obj))
			for k := range obj {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fields := make([]string, 0, len(keys))
			for _, k := range keys {
				fields = append(fields, fmt.Sprintf("%s: %v", k, obj[k]))
			}
			return Description{Format: FormatJSON, Fields: fields, Raw: content}
		}
		return Description{Format: FormatJSON, Fields: []string{trimmed}, Raw: content}
	}

	if strings.ContainsAny(trimmed, "|,") {
		parts := strings.FieldsFunc(trimmed, func(r rune) bool { return r == '|' || r == ',' })
		fields := make([]string, 0, len(parts))
		for _, p := range parts {
			fields = append(fields, strings.TrimSpace(p))
		}
		return Description{Format: FormatDelimited, Fields: fields, Raw: content}
	}

	return Description{Format: FormatPlain, Fields: []string{trimmed}, Raw: content}
}

// String renders the description the way the ticket screen shows it.
func (d Description) String() string {
	var b strings.Builder
	b.WriteString("Ticket Information:\n\n")
	if d.Format != FormatDelimited {
		b.WriteString(strings.Join(d.Fields, "\n"))
		return b.String()
	}
	for i, f := range d.Fields {
		fmt.Fprintf(&b, "Field %d: %s\n", i+1, f)
	}
	return b.String()
}
