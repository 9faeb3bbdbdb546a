// Package sim models the RP2040 peripherals used by the drivers so that they
// run unchanged on the host: interrupt masking, DMA channels feeding PIO state
// machines, an I2S DAC and an ST7789 panel.
//
// Interrupt handlers run on the goroutine completing a transfer, serialized
// with the code masking the interrupt. DMA transfers complete either when the
// test calls Complete or after a simulated transfer time.
package sim
