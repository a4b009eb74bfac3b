package envelope

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iwtcode/rlinkBridge/internal/domain/models"
	apperrors "github.com/iwtcode/rlinkBridge/pkg/errors"
)

const (
	TypeChannels = "channels"
	TypePing     = "ping"

	lengthPrefixSize = 4
	valueSize        = 4
)

// Parser разбирает один блок байт из сети в сообщение
type Parser func(buf []byte) (models.Message, error)

// ChannelWriter - получатель нового вектора каналов
type ChannelWriter interface {
	Replace(channels []int) error
}

// ForFormat возвращает парсер для формата потока. Форматы не определяются автоматически.
func ForFormat(format string) (Parser, error) {
	switch strings.ToLower(format) {
	case "json":
		return ParseJSON, nil
	case "binary":
		return ParseBinary, nil
	default:
		return nil, fmt.Errorf("unknown stream format %q", format)
	}
}

// ParseBinary разбирает устаревший формат: int32 LE количество, затем N значений int32 LE
func ParseBinary(buf []byte) (models.Message, error) {
	if len(buf) < lengthPrefixSize {
		return nil, fmt.Errorf("%w: buffer too small for length prefix (%d bytes)", apperrors.ErrMalformedMessage, len(buf))
	}

	count := int64(int32(binary.LittleEndian.Uint32(buf)))
	if count < 0 {
		return nil, fmt.Errorf("%w: negative element count %d", apperrors.ErrMalformedMessage, count)
	}
	if need := lengthPrefixSize + count*valueSize; int64(len(buf)) < need {
		return nil, fmt.Errorf("%w: incomplete data, have %d bytes, need %d", apperrors.ErrMalformedMessage, len(buf), need)
	}

	channels := make([]int, count)
	for i := range channels {
		off := lengthPrefixSize + i*valueSize
		channels[i] = int(int32(binary.LittleEndian.Uint32(buf[off:])))
	}
	return models.ChannelUpdate{Channels: channels}, nil
}

type rawEnvelope struct {
	Type    *string         `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ParseJSON разбирает конверт {"type": ..., "payload": ...}.
// Без поля payload полезной нагрузкой считается сам документ.
func ParseJSON(buf []byte) (models.Message, error) {
	var env rawEnvelope
	if err := json.Unmarshal(buf, &env); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", apperrors.ErrMalformedMessage, err)
	}
	if env.Type == nil || strings.TrimSpace(*env.Type) == "" {
		return nil, fmt.Errorf("%w: missing 'type' field", apperrors.ErrMalformedMessage)
	}

	payload := []byte(env.Payload)
	if len(payload) == 0 {
		payload = buf
	}
	if bytes.Equal(bytes.TrimSpace(payload), []byte("null")) {
		return nil, fmt.Errorf("%w: null payload for '%s'", apperrors.ErrMalformedMessage, *env.Type)
	}

	switch *env.Type {
	case TypeChannels:
		var msg models.ChannelUpdate
		if err := json.Unmarshal(payload, &msg); err != nil {
			return nil, fmt.Errorf("%w: channels payload: %v", apperrors.ErrMalformedMessage, err)
		}
		return msg, nil
	case TypePing:
		return models.Ping{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown message type '%s'", apperrors.ErrMalformedMessage, *env.Type)
	}
}

// Apply применяет сообщение к общему вектору каналов. Ping ничего не меняет.
func Apply(msg models.Message, store ChannelWriter) error {
	switch m := msg.(type) {
	case models.ChannelUpdate:
		if err := store.Replace(m.Channels); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrMalformedMessage, err)
		}
		return nil
	case models.Ping:
		return nil
	default:
		return fmt.Errorf("%w: unsupported message %T", apperrors.ErrMalformedMessage, msg)
	}
}
