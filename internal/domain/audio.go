package domain

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidDataURI = errors.New("invalid audio data uri")

// Audio is an encoded audio payload produced by a speech synthesizer.
type Audio struct {
	Data     []byte
	MimeType string
}

// DataURI renders the payload as a self-describing data URI
// (data:<mime>;base64,<body>).
func (a Audio) DataURI() string {
	mime := a.MimeType
	if mime == "" {
		mime = "audio/mpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// ParseDataURI decodes a base64 data URI produced by DataURI.
func ParseDataURI(uri string) (Audio, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return Audio{}, ErrInvalidDataURI
	}
	meta, body, ok := strings.Cut(rest, ",")
	if !ok {
		return Audio{}, ErrInvalidDataURI
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok || !strings.HasPrefix(mime, "audio/") {
		return Audio{}, ErrInvalidDataURI
	}
	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return Audio{}, errors.Join(ErrInvalidDataURI, err)
	}
	return Audio{Data: data, MimeType: mime}, nil
}
