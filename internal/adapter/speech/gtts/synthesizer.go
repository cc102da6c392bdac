// Package gtts synthesizes speech with the Google Translate text-to-speech endpoint.
package gtts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/seu-repo/appliance-store/internal/domain"
)

const (
	DefaultBaseURL = "https://translate.google.com/translate_tts"
	// maxChunk is the longest text the endpoint accepts per request.
	maxChunk  = 100
	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

var ErrEmptyText = errors.New("gtts: nothing to synthesize")

type Config struct {
	BaseURL  string
	Language string
	Slow     bool
	Timeout  time.Duration
}

type Synthesizer struct {
	cfg    Config
	client *fasthttp.Client
	log    *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Synthesizer {
	return NewWithClient(cfg, &fasthttp.Client{
		Name:                "appliance-store",
		ReadTimeout:         cfg.Timeout,
		WriteTimeout:        cfg.Timeout,
		MaxIdleConnDuration: time.Minute,
	}, log)
}

func NewWithClient(cfg Config, client *fasthttp.Client, log *zap.Logger) *Synthesizer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Synthesizer{cfg: cfg, client: client, log: log}
}

// Synthesize speaks text as MP3. Text longer than one request allows is
// split on word boundaries and the parts are concatenated.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (domain.Audio, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Audio{}, ErrEmptyText
	}

	chunks := splitText(text, maxChunk)
	var buf bytes.Buffer
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return domain.Audio{}, fmt.Errorf("gtts: %w", err)
		}
		data, err := s.fetch(ctx, chunk, i, len(chunks))
		if err != nil {
			return domain.Audio{}, err
		}
		buf.Write(data)
	}

	s.log.Debug("Synthesized speech",
		zap.Int("chars", utf8.RuneCountInString(text)),
		zap.Int("requests", len(chunks)),
		zap.Int("bytes", buf.Len()),
	)
	return domain.Audio{Data: buf.Bytes(), MimeType: "audio/mpeg"}, nil
}

func (s *Synthesizer) fetch(ctx context.Context, chunk string, idx, total int) ([]byte, error) {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)
	args.Set("ie", "UTF-8")
	args.Set("q", chunk)
	args.Set("tl", s.cfg.Language)
	args.Set("total", strconv.Itoa(total))
	args.Set("idx", strconv.Itoa(idx))
	args.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))
	args.Set("client", "tw-ob")
	args.Set("prev", "input")
	if s.cfg.Slow {
		args.Set("ttsspeed", "0.24")
	} else {
		args.Set("ttsspeed", "1")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.cfg.BaseURL + "?" + string(args.QueryString()))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("User-Agent", userAgent)

	deadline := time.Now().Add(s.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := s.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("gtts: request %d/%d: %w", idx+1, total, err)
	}
	if code := resp.StatusCode(); code != fasthttp.StatusOK {
		return nil, fmt.Errorf("gtts: request %d/%d: unexpected status %d", idx+1, total, code)
	}

	body := resp.Body()
	if len(body) == 0 {
		return nil, fmt.Errorf("gtts: request %d/%d: empty audio", idx+1, total)
	}
	return append([]byte(nil), body...), nil
}

// splitText breaks text into pieces of at most max runes, preferring word
// boundaries. Words longer than max are cut.
func splitText(text string, max int) []string {
	var (
		chunks []string
		cur    strings.Builder
		n      int
	)
	flush := func() {
		if n > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			n = 0
		}
	}

	for _, word := range strings.Fields(text) {
		wn := utf8.RuneCountInString(word)
		for wn > max {
			flush()
			runes := []rune(word)
			chunks = append(chunks, string(runes[:max]))
			word = string(runes[max:])
			wn -= max
		}
		if n > 0 && n+1+wn > max {
			flush()
		}
		if n > 0 {
			cur.WriteByte(' ')
			n++
		}
		cur.WriteString(word)
		n += wn
	}
	flush()
	return chunks
}
