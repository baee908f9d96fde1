// Package notify delivers messages and quotation PDFs to a Telegram chat
// through the Bot API.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

type Telegram struct {
	BaseURL string
	Token   string
	ChatID  string
	HTTP    *http.Client
}

func NewTelegram(baseURL, token, chatID string) *Telegram {
	return &Telegram{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		ChatID:  chatID,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (t *Telegram) method(name string) string {
	return fmt.Sprintf("%s/bot%s/%s", t.BaseURL, t.Token, name)
}

func (t *Telegram) SendText(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	body, err := json.Marshal(map[string]any{
		"chat_id": t.ChatID,
		"text":    text,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.method("sendMessage"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return t.do(req, "sendMessage")
}

func (t *Telegram) SendDocument(ctx context.Context, filename string, data []byte, caption string) error {
	body, contentType := buildDocumentMultipart(t.ChatID, filename, "application/pdf", data, caption)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.method("sendDocument"), body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	return t.do(req, "sendDocument")
}

func (t *Telegram) do(req *http.Request, method string) error {
	resp, err := t.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: %s: %w", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("telegram: %s status=%d body=%s", method, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

func buildDocumentMultipart(chatID, filename, contentType string, data []byte, caption string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	_ = writer.WriteField("chat_id", chatID)
	if caption != "" {
		_ = writer.WriteField("caption", caption)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="document"; filename="%s"`, strings.ReplaceAll(filename, `"`, "")))
	header.Set("Content-Type", contentType)
	part, _ := writer.CreatePart(header)
	_, _ = part.Write(data)
	_ = writer.Close()
	return body, writer.FormDataContentType()
}
