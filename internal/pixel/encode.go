package pixel

// WS2812 timing is met by running the SPI clock at 2.4 MHz and emitting
// three SPI bits per WS2812 bit: 110 for a one, 100 for a zero. Each bit
// then occupies 1.25 µs with the high time inside the chip's tolerance
// bands. The frame ends with a low tail longer than the 80 µs reset latch.
const (
	encBitOne  = 0b110
	encBitZero = 0b100

	// 24 color bits * 3 SPI bits = 72 bits = 9 bytes.
	frameBytes = 9

	// 24 zero bytes = 192 bit times = 80 µs at 2.4 MHz.
	resetBytes = 24
)

// encodeFrame expands one GRB color into the SPI byte stream for a single
// WS2812 pixel, including the reset tail.
func encodeFrame(r, g, b uint8) []byte {
	buf := make([]byte, 0, frameBytes+resetBytes)

	var acc uint32
	var n uint
	push := func(v uint32) {
		acc = acc<<3 | v
		n += 3
		for n >= 8 {
			n -= 8
			buf = append(buf, byte(acc>>n))
		}
	}

	// WS2812 channel order is GRB, most significant bit first.
	for _, c := range [3]uint8{g, r, b} {
		for i := 7; i >= 0; i-- {
			if c>>uint(i)&1 == 1 {
				push(encBitOne)
			} else {
				push(encBitZero)
			}
		}
	}

	for i := 0; i < resetBytes; i++ {
		buf = append(buf, 0)
	}
	return buf
}
