package crsf

// Battery - показания датчика батареи, извлеченные из входящего потока
type Battery struct {
	VoltageRaw int // сотые доли вольта
}

// VoltageV возвращает напряжение в вольтах
func (b Battery) VoltageV() float64 {
	return float64(b.VoltageRaw) / 100.0
}

// TelemetryDecoder извлекает запись телеметрии из прочитанного буфера.
// Интерфейс позволяет заменить эвристический поиск на полноценный парсер кадров.
type TelemetryDecoder interface {
	Decode(buf []byte) (Battery, bool)
}

// MarkerScanDecoder ищет маркер 0xEA, за которым через байт следует тип 0x08,
// и читает два следующих байта как напряжение (big-endian).
// Запись, разрезанная между двумя чтениями, теряется.
type MarkerScanDecoder struct{}

var _ TelemetryDecoder = MarkerScanDecoder{}

func (MarkerScanDecoder) Decode(buf []byte) (Battery, bool) {
	if len(buf) < minTelemetryLen {
		return Battery{}, false
	}

	for i := 0; i+minTelemetryLen <= len(buf); i++ {
		if buf[i] == TelemetryMarker && buf[i+2] == BatterySensorType {
			voltage := int(buf[i+3])<<8 | int(buf[i+4])
			return Battery{VoltageRaw: voltage}, true
		}
	}
	return Battery{}, false
}
