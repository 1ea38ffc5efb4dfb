//go:build tinygo

//go:generate tinygo flash -target=xiao

package main

import (
	"machine"
	"strconv"
	"time"
)

var (
	adcThermo machine.ADC
	uart      = machine.UART0

	// ADC averaging - running sum and count
	thermoSum   uint32
	thermoCount int

	// Timing
	lastADCRead time.Time
)

func main() {
	// Configure ADC pin and set up the ADC with highest resolution
	PIN_THERMO_ADC.Configure(machine.PinConfig{Mode: machine.PinInput})

	adcThermo = machine.ADC{Pin: PIN_THERMO_ADC}
	adcThermo.Configure(machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	})

	// Configure UART for streaming readings
	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	// Initialize timing
	lastADCRead = time.Now()

	// Main loop
	for {
		now := time.Now()

		// Read the thermocouple ADC at a fixed rate
		if now.Sub(lastADCRead) >= time.Duration(SAMPLE_INTERVAL_MS)*time.Millisecond {
			readThermoADC()
			lastADCRead = now
		}

		// Once N samples are collected, output the averaged reading
		if thermoCount >= NUM_SAMPLES {
			outputAveragedValue()
			thermoSum = 0
			thermoCount = 0
		}

		// Small delay to prevent a tight loop (but still allow precise timing)
		time.Sleep(100 * time.Microsecond)
	}
}

func readThermoADC() {
	value := adcThermo.Get()
	thermoSum += uint32(value)
	thermoCount++
}

func outputAveragedValue() {
	n := thermoCount
	if n > NUM_SAMPLES {
		n = NUM_SAMPLES
	}
	if n == 0 {
		n = 1 // Avoid division by zero
	}
	avg := thermoSum / uint32(n)

	// ADC counts -> millivolts -> °C
	mv := float64(avg) * ADC_REFERENCE_MV / 4095.0
	celsius := (mv - AMP_OFFSET_MV) / AMP_MV_PER_C

	uart.Write([]byte("T:"))
	uart.Write([]byte(strconv.FormatFloat(celsius, 'f', 2, 64)))
	uart.Write([]byte("\n"))
}
