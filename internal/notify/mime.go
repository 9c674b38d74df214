package notify

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// buildRawMessage assembles a multipart MIME message with a plain-text body
// and the report document attached as a text file.
func buildRawMessage(from string, to []string, subject, body, attachment, filename string) string {
	boundary := fmt.Sprintf("boundary_%d", time.Now().Unix())

	var email strings.Builder

	// Headers
	email.WriteString(fmt.Sprintf("From: %s\r\n", from))
	email.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	email.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	email.WriteString("MIME-Version: 1.0\r\n")
	email.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n", boundary))
	email.WriteString("\r\n")

	// Plain text body
	email.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	email.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	email.WriteString("\r\n")
	email.WriteString(body)
	email.WriteString("\r\n")

	// Report attachment
	email.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	email.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	email.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=\"%s\"\r\n", filename))
	email.WriteString("Content-Transfer-Encoding: base64\r\n")
	email.WriteString("\r\n")

	encoded := base64.StdEncoding.EncodeToString([]byte(attachment))
	for _, line := range chunkString(encoded, 76) {
		email.WriteString(line + "\r\n")
	}

	email.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	return email.String()
}

// chunkString splits a string into chunks of specified length
func chunkString(s string, chunkSize int) []string {
	var chunks []string
	for i := 0; i < len(s); i += chunkSize {
		end := i + chunkSize
		if end > len(s) {
			end = len(s)
		}
		chunks = append(chunks, s[i:end])
	}
	return chunks
}
