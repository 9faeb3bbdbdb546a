package pio

// I2S shifts out one 32 bit word per stereo frame, left channel in the upper
// half, MSB first. Side-set bit 0 drives BCLK, bit 1 drives LRCLK, which must
// be the pin following BCLK.
var I2S = Program{
	Name: "audio_i2s",
	Instructions: []uint16{
		//     .wrap_target
		0x7001, //  0: out    pins, 1         side 2
		0x1840, //  1: jmp    x--, 0          side 3
		0x6001, //  2: out    pins, 1         side 0
		0xe82e, //  3: set    x, 14           side 1
		0x6001, //  4: out    pins, 1         side 0
		0x0844, //  5: jmp    x--, 4          side 1
		0x7001, //  6: out    pins, 1         side 2
		0xf82e, //  7: set    x, 14           side 3
		//     .wrap
	},
	Origin:      -1,
	WrapTarget:  0,
	Wrap:        7,
	SideSetBits: 2,
	EntryPoint:  7,
}

// I2SCyclesPerFrame is the number of state machine cycles per stereo frame.
const I2SCyclesPerFrame = 32 * 2

// ST7789 shifts out bytes MSB first on one data pin, clocking each bit with
// side-set. Data is taken from the top byte of each FIFO word.
var ST7789 = Program{
	Name: "st7789_lcd",
	Instructions: []uint16{
		//     .wrap_target
		0x6001, //  0: out    pins, 1         side 0
		0xb042, //  1: nop                    side 1
		//     .wrap
	},
	Origin:      -1,
	WrapTarget:  0,
	Wrap:        1,
	SideSetBits: 1,
	EntryPoint:  0,
}
