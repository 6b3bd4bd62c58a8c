// Package termios provides a raw termios based serial port adapter.
// Only available on linux.
package termios
