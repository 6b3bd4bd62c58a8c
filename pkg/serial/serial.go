// Package serial holds the registry of serial port implementations.
// Adapters register themselves on import, see the subpackages.
package serial

import (
	"fmt"

	seriallink "github.com/samsamfire/goseriallink"
)

type NewPortFunc func(device string, baudRate int) (seriallink.Port, error)

var portRegistry = make(map[string]NewPortFunc)

// Register a new serial port implementation type
// This should be called inside an init() function of the adapter
func RegisterInterface(interfaceType string, newPort NewPortFunc) {
	portRegistry[interfaceType] = newPort
}

// NewPort opens a port with the given registered implementation
// Currently supported : serial, termios
func NewPort(interfaceType string, device string, baudRate int) (seriallink.Port, error) {
	createPort, ok := portRegistry[interfaceType]
	if !ok {
		return nil, fmt.Errorf("unsupported interface : %v", interfaceType)
	}
	return createPort(device, baudRate)
}
