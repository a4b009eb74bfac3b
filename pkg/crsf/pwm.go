package crsf

import "math"

// ToTicks переводит ширину импульса (мкс) в тики приемника: 1000..2000 мкс -> ~192..1792
func ToTicks(pwmUs int) int {
	return int(math.Round(float64(pwmUs-PwmCenter)*usToTick + TickCenter))
}

// ToPwm - обратное преобразование тиков в микросекунды
func ToPwm(ticks int) int {
	return int(math.Round(float64(ticks-TickCenter)*tickToUs + PwmCenter))
}

// UsToTicks применяет ToTicks к каждому элементу
func UsToTicks(pwm []int) []int {
	out := make([]int, len(pwm))
	for i, v := range pwm {
		out[i] = ToTicks(v)
	}
	return out
}

// TicksToUs применяет ToPwm к каждому элементу
func TicksToUs(ticks []int) []int {
	out := make([]int, len(ticks))
	for i, v := range ticks {
		out[i] = ToPwm(v)
	}
	return out
}
