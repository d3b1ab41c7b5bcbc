package mailbox

import (
	"bytes"
	"fmt"
	"io"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"github.com/Dooskington/Mail-Journal/internal/model"
)

// Parse transforms raw message bytes into an InboundEmail. The From,
// Subject, and Date headers are required. The Date header is converted
// to UTC. The body is the decoded content of the first MIME subpart; a
// message with no subparts yields an empty body.
func Parse(raw []byte) (model.InboundEmail, error) {
	entity, err := message.Read(bytes.NewReader(raw))
	if err != nil {
		return model.InboundEmail{}, fmt.Errorf("reading message: %w", err)
	}

	header := mail.Header{Header: entity.Header}

	from, err := requiredHeader(header, "From")
	if err != nil {
		return model.InboundEmail{}, err
	}

	subject, err := requiredHeader(header, "Subject")
	if err != nil {
		return model.InboundEmail{}, err
	}

	// header.Date returns a zero time with no error when the header is
	// absent, so presence has to be checked separately.
	if header.Get("Date") == "" {
		return model.InboundEmail{}, fmt.Errorf("message has no Date header")
	}
	date, err := header.Date()
	if err != nil {
		return model.InboundEmail{}, fmt.Errorf("parsing Date header: %w", err)
	}

	body, err := firstPartBody(entity)
	if err != nil {
		return model.InboundEmail{}, err
	}

	return model.InboundEmail{
		From:      from,
		Subject:   subject,
		Timestamp: date.UTC(),
		Body:      body,
	}, nil
}

// requiredHeader returns the decoded text of a header that must be present.
func requiredHeader(h mail.Header, key string) (string, error) {
	v, err := h.Text(key)
	if err != nil {
		return "", fmt.Errorf("decoding %s header: %w", key, err)
	}
	if v == "" {
		return "", fmt.Errorf("message has no %s header", key)
	}
	return v, nil
}

// firstPartBody reads the decoded content of the first MIME subpart.
// Non-multipart messages yield an empty body.
func firstPartBody(entity *message.Entity) (string, error) {
	mr := entity.MultipartReader()
	if mr == nil {
		return "", nil
	}

	part, err := mr.NextPart()
	if err == io.EOF {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading first message part: %w", err)
	}

	b, err := io.ReadAll(part.Body)
	if err != nil {
		return "", fmt.Errorf("decoding message body: %w", err)
	}

	return string(b), nil
}
