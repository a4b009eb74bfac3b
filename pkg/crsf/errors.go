package crsf

import "errors"

var (
	ErrChannelCount = errors.New("invalid channel count")
	ErrShortBuffer  = errors.New("buffer too short")
	ErrBadHeader    = errors.New("unexpected frame header")
	ErrBadChecksum  = errors.New("frame checksum mismatch")
)
