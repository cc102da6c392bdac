package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/seu-repo/appliance-store/internal/domain"
)

// apiClient calls the store's REST API.
type apiClient struct {
	base    string
	http    *fasthttp.Client
	timeout time.Duration
}

func newAPIClient(base string) *apiClient {
	return &apiClient{
		base:    strings.TrimRight(base, "/"),
		http:    &fasthttp.Client{Name: appName},
		timeout: 60 * time.Second,
	}
}

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

func (c *apiClient) Query(text string) (domain.AssistantResult, error) {
	body, err := json.Marshal(map[string]string{"query": text})
	if err != nil {
		return domain.AssistantResult{}, err
	}
	var res domain.AssistantResult
	err = c.do(fasthttp.MethodPost, "/api/v1/assistant/query", "application/json", body, &res)
	return res, err
}

func (c *apiClient) Transcribe(path string, audio []byte) (domain.Transcription, error) {
	var res domain.Transcription
	err := c.upload("/api/v1/assistant/speech-to-text", path, audio, &res)
	return res, err
}

func (c *apiClient) Voice(path string, audio []byte) (domain.SpeechResult, error) {
	var res domain.SpeechResult
	err := c.upload("/api/v1/assistant/voice", path, audio, &res)
	return res, err
}

func (c *apiClient) upload(endpoint, path string, audio []byte, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="audio"; filename=%q`, filepath.Base(path)))
	h.Set("Content-Type", audioContentType(path))
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := part.Write(audio); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.do(fasthttp.MethodPost, endpoint, w.FormDataContentType(), buf.Bytes(), out)
}

func (c *apiClient) do(method, path, contentType string, body []byte, out any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.base + path)
	req.Header.SetMethod(method)
	req.Header.SetContentType(contentType)
	req.SetBody(body)

	if err := c.http.DoTimeout(req, resp, c.timeout); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if code := resp.StatusCode(); code >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(resp.Body()))
		if json.Unmarshal(resp.Body(), &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &apiError{Status: code, Message: msg}
	}
	return json.Unmarshal(resp.Body(), out)
}

// audioContentType guesses the upload type from the file extension.
func audioContentType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".webm":
		return "audio/webm"
	case ".ogg", ".oga", ".opus":
		return "audio/ogg"
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	case ".pcm", ".raw":
		return "audio/l16; rate=16000"
	}
	if t := mime.TypeByExtension(ext); strings.HasPrefix(t, "audio/") {
		return t
	}
	return "audio/webm"
}
