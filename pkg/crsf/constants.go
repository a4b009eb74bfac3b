package crsf

// Константы кадра RC-каналов (CRSF, TX -> RX)
const (
	// AddressFlightController - адрес получателя кадра (приемник/полетный контроллер)
	AddressFlightController byte = 0xC8
	// AddressBroadcast - широковещательный адрес, в текущей схеме не используется
	AddressBroadcast byte = 0xEE
	// FrameTypeRCChannels - тип кадра "упакованные данные каналов"
	FrameTypeRCChannels byte = 0x16

	ChannelCount   = 16
	BitsPerChannel = 11
	TickMax        = 1<<BitsPerChannel - 1 // 2047

	// PayloadSize = ceil(16*11/8) = 22
	PayloadSize = (ChannelCount*BitsPerChannel + 7) / 8
	// FrameLength считает тип + полезную нагрузку + CRC (без адреса и самого байта длины)
	FrameLength byte = 1 + PayloadSize + 1
	// FrameSize = адрес + длина + тип + 22 байта + CRC = 26
	FrameSize = 2 + int(FrameLength)
)

// Маркеры телеметрии батареи во входящем потоке
const (
	TelemetryMarker   byte = 0xEA
	BatterySensorType byte = 0x08

	// minTelemetryLen - маркер, байт, тип, старший и младший байты напряжения
	minTelemetryLen = 5
)

// Параметры аффинного преобразования мкс <-> тики приемника
const (
	PwmCenter  = 1500
	TickCenter = 992
	usToTick   = 1.6
	tickToUs   = 0.625
)
