//go:build tinygo

package main

import "machine"

const (
	// Sampling configuration
	SAMPLE_INTERVAL_MS = 10 // ADC read interval in milliseconds
	NUM_SAMPLES        = 10 // Number of samples to average per output line

	// ADC configuration
	ADC_REFERENCE_MV = 3300 // Reference voltage in millivolts (3.3V)
	ADC_RESOLUTION   = 12   // ADC resolution in bits (12-bit = 0-4095)

	// Thermocouple amplifier (AD8495, K-type): 5 mV/°C with a 1.25 V
	// offset at 0 °C.
	AMP_MV_PER_C  = 5.0
	AMP_OFFSET_MV = 1250.0

	// Thermocouple amplifier output pin
	PIN_THERMO_ADC = machine.A1

	// Serial configuration
	// Format "T:<celsius>\n", e.g. "T:1012.25\n" = ~11 bytes per line.
	// 10 outputs/sec * 11 bytes/line = 110 bytes/sec; 115200 baud has
	// orders of magnitude of headroom.
	UART_BAUD_RATE = 115200
)
