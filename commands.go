package hd44780

// Instruction bytes, as listed in the HD44780 datasheet instruction table.
const (
	cmdClear          = 0b00000001
	cmdReturnHome     = 0b00000010
	cmdEntryMode      = 0b00000100
	cmdDisplayControl = 0b00001000
	cmdFunctionSet    = 0b00100000
	cmdSetDDAddress   = 0b10000000
)

// entryMode sets the data entry direction and whether to also shift.
func entryMode(increment, shift bool) byte {
	a := byte(cmdEntryMode)
	if increment {
		a += 0b00000010
	}
	if shift {
		a += 0b00000001
	}
	return a
}

// displayControl turns on/off the whole display, cursor, or cursor-blinking.
func displayControl(display, cursor, blink bool) byte {
	a := byte(cmdDisplayControl)
	if display {
		a += 0b00000100
	}
	if cursor {
		a += 0b00000010
	}
	if blink {
		a += 0b00000001
	}
	return a
}

// functionSet sets the interface data length, number of display lines, and
// character font.
// eightbit = false means 4-bit operation.
// twolines = false means use 1 display line.
// largefont = false means use 5x8 font instead of 5x10 font.
func functionSet(eightbit, twolines, largefont bool) byte {
	a := byte(cmdFunctionSet)
	if eightbit {
		a += 0b00010000
	}
	if twolines {
		a += 0b00001000
	}
	if largefont {
		a += 0b00000100
	}
	return a
}

// setDDAddress sets the DD RAM address (0 <= a < 128).
func setDDAddress(a byte) byte {
	return cmdSetDDAddress | a&0x7f
}

// initSequence is sent once after the pins are configured, each command
// followed by initDelay.
var initSequence = []byte{
	cmdReturnHome,                      // 0x02, also selects 4-bit mode
	functionSet(false, true, false),    // 0x28
	entryMode(true, false),             // 0x06
	displayControl(true, false, false), // 0x0C
	cmdClear,                           // 0x01
}
