package handlers

import (
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/appliance-store/internal/domain"
	"github.com/seu-repo/appliance-store/internal/ports"
)

const defaultMaxAudioBytes = 10 << 20

type AssistantHandler struct {
	service       ports.AssistantService
	maxAudioBytes int64
	log           *zap.Logger
}

func NewAssistantHandler(service ports.AssistantService, maxAudioBytes int64, log *zap.Logger) *AssistantHandler {
	if maxAudioBytes <= 0 {
		maxAudioBytes = defaultMaxAudioBytes
	}
	return &AssistantHandler{service: service, maxAudioBytes: maxAudioBytes, log: log}
}

func (h *AssistantHandler) RegisterRoutes(router fiber.Router) {
	g := router.Group("/assistant")
	g.Post("/query", h.Query)
	g.Post("/speech-to-text", h.SpeechToText)
	g.Post("/voice", h.Voice)
	g.Get("/commands", h.Commands)
}

type QueryRequest struct {
	Query string `json:"query"`
}

func (h *AssistantHandler) Query(c *fiber.Ctx) error {
	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "query is required")
	}

	return c.JSON(h.service.HandleQuery(c.UserContext(), req.Query))
}

func (h *AssistantHandler) SpeechToText(c *fiber.Ctx) error {
	audio, mime, err := h.readAudio(c)
	if err != nil {
		return err
	}

	t, err := h.service.Transcribe(c.UserContext(), audio, mime)
	if err != nil {
		if errors.Is(err, domain.ErrSpeechUnavailable) || errors.Is(err, domain.ErrUnsupportedAudio) {
			return err
		}
		h.log.Warn("Transcription failed", zap.String("mime", mime), zap.Error(err))
		return fiber.NewError(fiber.StatusBadGateway, "transcription failed")
	}
	return c.JSON(t)
}

// Voice transcribes the recording and answers it in one round trip.
func (h *AssistantHandler) Voice(c *fiber.Ctx) error {
	audio, mime, err := h.readAudio(c)
	if err != nil {
		return err
	}
	return c.JSON(h.service.HandleSpeech(c.UserContext(), audio, mime))
}

func (h *AssistantHandler) Commands(c *fiber.Ctx) error {
	return c.JSON(h.service.Commands())
}

func (h *AssistantHandler) readAudio(c *fiber.Ctx) ([]byte, string, error) {
	fh, err := c.FormFile("audio")
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "No audio file provided")
	}

	mime := fh.Header.Get(fiber.HeaderContentType)
	if !strings.Contains(mime, "audio") {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "File must be an audio file")
	}
	if fh.Size > h.maxAudioBytes {
		return nil, "", fiber.NewError(fiber.StatusRequestEntityTooLarge, "Audio file is too large")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxAudioBytes))
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "Audio file is empty")
	}
	return data, mime, nil
}
