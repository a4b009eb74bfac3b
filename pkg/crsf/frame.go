package crsf

import "fmt"

// FrameBuilder собирает кадр RC-каналов: [адрес, длина, тип] + 22 байта каналов + CRC
type FrameBuilder struct {
	address  byte
	checksum ChecksumFunc
}

// NewFrameBuilder создает сборщик кадров. При checksum == nil используется CRC8DVBS2.
func NewFrameBuilder(checksum ChecksumFunc) *FrameBuilder {
	if checksum == nil {
		checksum = CRC8DVBS2
	}
	return &FrameBuilder{
		address:  AddressFlightController,
		checksum: checksum,
	}
}

// Build кодирует вектор каналов (мкс) в новый кадр.
// Длина вектора проверяется до того, как будет сформирован хотя бы один байт.
func (b *FrameBuilder) Build(pwm []int) ([]byte, error) {
	if len(pwm) != ChannelCount {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrChannelCount, ChannelCount, len(pwm))
	}

	packed := PackChannels(UsToTicks(pwm))

	frame := make([]byte, 0, FrameSize)
	frame = append(frame, b.address, FrameLength, FrameTypeRCChannels)
	frame = append(frame, packed...)
	// CRC считается по типу и полезной нагрузке
	frame = append(frame, b.checksum(frame[2:]))

	return frame, nil
}

// DecodeChannels разбирает кадр RC-каналов и возвращает значения в тиках
func (b *FrameBuilder) DecodeChannels(frame []byte) ([]int, error) {
	if len(frame) < FrameSize {
		return nil, fmt.Errorf("%w: frame is %d bytes, want %d", ErrShortBuffer, len(frame), FrameSize)
	}
	if frame[0] != b.address || frame[1] != FrameLength || frame[2] != FrameTypeRCChannels {
		return nil, fmt.Errorf("%w: % X", ErrBadHeader, frame[:3])
	}
	if got, want := frame[FrameSize-1], b.checksum(frame[2:FrameSize-1]); got != want {
		return nil, fmt.Errorf("%w: got 0x%02X, want 0x%02X", ErrBadChecksum, got, want)
	}
	return UnpackChannels(frame[3:FrameSize-1], ChannelCount)
}
