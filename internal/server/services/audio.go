package services

import (
	"encoding/base64"
	"mime"
	"strings"

	"github.com/leeya018/gratitudes/internal/common"
)

// DefaultAudioContentType is assumed for bare base64 payloads.
const DefaultAudioContentType = "audio/webm"

// DecodeAudio decodes a binary-as-text audio payload: either a data URL
// ("data:audio/webm;base64,...") or bare standard base64. Payloads whose
// decoded size exceeds maxBytes yield common.ErrAudioTooLarge.
func DecodeAudio(payload string, maxBytes int64) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, "", common.ErrInvalidAudio
	}

	contentType := DefaultAudioContentType
	encoded := payload

	if rest, ok := strings.CutPrefix(payload, "data:"); ok {
		header, data, found := strings.Cut(rest, ",")
		if !found {
			return nil, "", common.ErrInvalidAudio
		}
		params := strings.Split(header, ";")
		if params[len(params)-1] != "base64" {
			return nil, "", common.ErrInvalidAudio
		}
		if media := strings.Join(params[:len(params)-1], ";"); media != "" {
			mt, _, err := mime.ParseMediaType(media)
			if err != nil {
				return nil, "", common.ErrInvalidAudio
			}
			if !strings.HasPrefix(mt, "audio/") && mt != "application/octet-stream" {
				return nil, "", common.ErrInvalidAudio
			}
			contentType = media
		}
		encoded = data
	}

	if maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(encoded))) > maxBytes+2 {
		return nil, "", common.ErrAudioTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", common.ErrInvalidAudio
	}
	if len(data) == 0 {
		return nil, "", common.ErrInvalidAudio
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, "", common.ErrAudioTooLarge
	}
	return data, contentType, nil
}
