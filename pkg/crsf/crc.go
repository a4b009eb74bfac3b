package crsf

// ChecksumFunc считает контрольный байт по последовательности байт.
// Конкретный полином должен совпадать с тем, что ожидает приемник.
type ChecksumFunc func(data []byte) byte

// CRC8DVBS2 - CRC-8/DVB-S2 (полином 0xD5, init 0x00), используемый CRSF/ExpressLRS
func CRC8DVBS2(data []byte) byte {
	crc := byte(0x00)
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = (crc << 1) ^ 0xD5
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
