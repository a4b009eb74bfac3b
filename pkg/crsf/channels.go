package crsf

import "fmt"

// PackedSize возвращает размер буфера для count каналов по 11 бит
func PackedSize(count int) int {
	return (count*BitsPerChannel + 7) / 8
}

// PackChannels упаковывает значения каналов в непрерывный поток бит (LSB-first, 11 бит на канал).
// Значения вне диапазона [0, 2047] молча ограничиваются.
func PackChannels(values []int) []byte {
	out := make([]byte, PackedSize(len(values)))
	bitIndex := 0

	for _, v := range values {
		v = clampTicks(v)
		for b := 0; b < BitsPerChannel; b, bitIndex = b+1, bitIndex+1 {
			if (v>>b)&1 != 0 {
				out[bitIndex>>3] |= 1 << (bitIndex & 7)
			}
		}
	}
	return out
}

// UnpackChannels - обратная операция к PackChannels
func UnpackChannels(data []byte, count int) ([]int, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrChannelCount, count)
	}
	if need := PackedSize(count); len(data) < need {
		return nil, fmt.Errorf("%w: need %d bytes for %d channels, got %d", ErrShortBuffer, need, count, len(data))
	}

	res := make([]int, count)
	bitIndex := 0
	for c := 0; c < count; c++ {
		v := 0
		for b := 0; b < BitsPerChannel; b, bitIndex = b+1, bitIndex+1 {
			bit := int(data[bitIndex>>3]>>(bitIndex&7)) & 1
			v |= bit << b
		}
		res[c] = v
	}
	return res, nil
}

func clampTicks(v int) int {
	if v < 0 {
		return 0
	}
	if v > TickMax {
		return TickMax
	}
	return v
}
