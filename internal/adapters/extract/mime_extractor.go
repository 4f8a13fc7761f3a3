package extract

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/mikey/llm-email-categorizer/internal/core"
	"github.com/mikey/llm-email-categorizer/internal/utils"
)

// MIMEExtractor is an implementation of the ContentExtractor interface for RFC 5322 messages
type MIMEExtractor struct {
	textProcessor *utils.TextProcessor
	maxBodySize   int
	logger        *zap.Logger
	words         *mime.WordDecoder
}

// NewMIMEExtractor creates a new extractor. A maxBodySize of 0 keeps the whole body.
func NewMIMEExtractor(textProcessor *utils.TextProcessor, maxBodySize int, logger *zap.Logger) *MIMEExtractor {
	return &MIMEExtractor{
		textProcessor: textProcessor,
		maxBodySize:   maxBodySize,
		logger:        logger,
		words:         &mime.WordDecoder{CharsetReader: charsetReader},
	}
}

// FormatBody renders the text the model sees for one email
func FormatBody(subject, content string) string {
	return fmt.Sprintf("Subject: %s \n\n\n Email content: %s", subject, content)
}

// Extract parses a raw email into the formatted body, sender address and subject
func (e *MIMEExtractor) Extract(raw []byte) (string, string, string, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %v", core.ErrExtraction, err)
	}

	subject := e.decodeHeader(msg.Header.Get("Subject"))
	sender := senderAddress(msg.Header.Get("From"))

	content, err := extractText(msg.Header, msg.Body)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %v", core.ErrExtraction, err)
	}
	content = e.textProcessor.Prepare(content, e.maxBodySize)

	e.logger.Debug("Extracted email content",
		zap.String("sender", sender),
		zap.Int("content_size", len(content)))

	return FormatBody(subject, content), sender, subject, nil
}

func (e *MIMEExtractor) decodeHeader(value string) string {
	decoded, err := e.words.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

// senderAddress returns the bare address from a From header, or the raw header
// when it does not parse
func senderAddress(from string) string {
	addr, err := mail.ParseAddress(from)
	if err != nil {
		return strings.TrimSpace(from)
	}
	return addr.Address
}

// header is the subset of header access shared by messages and parts
type header interface {
	Get(key string) string
}

// extractText decodes a single-part body, or concatenates the text/plain and
// text/html parts of a multipart body in order
func extractText(h header, body io.Reader) (string, error) {
	contentType := h.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain; charset=utf-8"
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("invalid content type %q: %w", contentType, err)
	}

	if !strings.HasPrefix(mediaType, "multipart/") {
		return decodePart(h.Get("Content-Transfer-Encoding"), params["charset"], body)
	}

	boundary, ok := params["boundary"]
	if !ok {
		return "", fmt.Errorf("multipart message without boundary")
	}

	var text strings.Builder
	mr := multipart.NewReader(body, boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read multipart body: %w", err)
		}

		partType, partParams, err := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if err != nil {
			// Parts without a content type default to text/plain
			partType, partParams = "text/plain", map[string]string{}
		}

		switch {
		case partType == "text/plain" || partType == "text/html":
			decoded, err := decodePart(part.Header.Get("Content-Transfer-Encoding"), partParams["charset"], part)
			if err != nil {
				return "", err
			}
			text.WriteString(decoded)
		case strings.HasPrefix(partType, "multipart/"):
			nested, err := extractText(part.Header, part)
			if err != nil {
				return "", err
			}
			text.WriteString(nested)
		}
		// Attachments and other parts are skipped
	}
	return text.String(), nil
}

// decodePart undoes the transfer encoding and converts the charset to UTF-8
func decodePart(transferEncoding, charset string, body io.Reader) (string, error) {
	switch strings.ToLower(strings.TrimSpace(transferEncoding)) {
	case "quoted-printable":
		body = quotedprintable.NewReader(body)
	case "base64":
		body = base64.NewDecoder(base64.StdEncoding, newlineStripper{body})
	}

	reader, err := charsetReader(charset, body)
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to decode part: %w", err)
	}
	return string(data), nil
}

// charsetReader converts input in the named charset to UTF-8
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	charset = strings.ToLower(strings.TrimSpace(charset))
	if charset == "" || charset == "utf-8" || charset == "us-ascii" {
		return input, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", charset, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

// newlineStripper drops CR and LF so line-wrapped base64 decodes
type newlineStripper struct {
	r io.Reader
}

func (n newlineStripper) Read(p []byte) (int, error) {
	for {
		count, err := n.r.Read(p)
		kept := 0
		for _, b := range p[:count] {
			if b != '\r' && b != '\n' {
				p[kept] = b
				kept++
			}
		}
		if kept > 0 || err != nil {
			return kept, err
		}
	}
}
