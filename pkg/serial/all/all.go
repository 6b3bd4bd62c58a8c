// Importing this package enables all the serial port adapters
package all

import (
	_ "github.com/samsamfire/goseriallink/pkg/serial/bugst"
	_ "github.com/samsamfire/goseriallink/pkg/serial/termios"
)
