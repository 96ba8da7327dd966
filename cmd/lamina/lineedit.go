// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package main

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// lineEditor reads lines from a terminal in raw mode.
type lineEditor struct {
	in  io.Reader
	out io.Writer

	line   []rune
	cursor int // position in line (for arrow key navigation)
}

func (ed *lineEditor) readByte() (byte, bool) {
	var buf [1]byte
	n, err := ed.in.Read(buf[:])
	if err != nil || n == 0 {
		return 0, false
	}
	return buf[0], true
}

// redrawFromCursor clears from the cursor to the end of the line, prints the
// rest of the line and moves the cursor back.
func (ed *lineEditor) redrawFromCursor() {
	fmt.Fprint(ed.out, "\x1b[K")
	fmt.Fprint(ed.out, string(ed.line[ed.cursor:]))
	if ed.cursor < len(ed.line) {
		fmt.Fprintf(ed.out, "\x1b[%dD", len(ed.line)-ed.cursor)
	}
}

// replace swaps the whole line, used by history navigation.
func (ed *lineEditor) replace(s string) {
	if ed.cursor > 0 {
		fmt.Fprintf(ed.out, "\x1b[%dD", ed.cursor)
	}
	ed.line = []rune(s)
	ed.cursor = 0
	ed.redrawFromCursor()
	if len(ed.line) > 0 {
		fmt.Fprintf(ed.out, "\x1b[%dC", len(ed.line))
	}
	ed.cursor = len(ed.line)
}

func (ed *lineEditor) insert(r rune) {
	ed.line = append(ed.line, 0)
	copy(ed.line[ed.cursor+1:], ed.line[ed.cursor:])
	ed.line[ed.cursor] = r
	ed.cursor++
	fmt.Fprint(ed.out, string(r))
	if ed.cursor < len(ed.line) {
		ed.redrawFromCursor()
	}
}

func (ed *lineEditor) deleteAtCursor() {
	if ed.cursor < len(ed.line) {
		ed.line = append(ed.line[:ed.cursor], ed.line[ed.cursor+1:]...)
		ed.redrawFromCursor()
	}
}

// readLine reads one line. history is browsed with the up and down arrows,
// newest last. It returns the line and whether EOF was encountered.
func (ed *lineEditor) readLine(history []string) (string, bool) {
	ed.line, ed.cursor = nil, 0
	pos := len(history) // len(history) is the line being typed
	draft := ""

	for {
		b, ok := ed.readByte()
		if !ok {
			return string(ed.line), true
		}

		switch b {
		case 0x04: // Ctrl+D
			if len(ed.line) == 0 {
				return "", true
			}
			ed.deleteAtCursor()

		case 0x03: // Ctrl+C
			fmt.Fprint(ed.out, "^C\r\n")
			return "", false

		case 0x0d, 0x0a: // Enter
			fmt.Fprint(ed.out, "\r\n")
			return string(ed.line), false

		case 0x7f, 0x08: // Backspace
			if ed.cursor > 0 {
				ed.cursor--
				ed.line = append(ed.line[:ed.cursor], ed.line[ed.cursor+1:]...)
				fmt.Fprint(ed.out, "\b")
				ed.redrawFromCursor()
			}

		case 0x1b: // ESC [ x
			if next, ok := ed.readByte(); !ok || next != '[' {
				continue
			}
			key, ok := ed.readByte()
			if !ok {
				continue
			}
			switch key {
			case 'A': // Up
				if pos > 0 {
					if pos == len(history) {
						draft = string(ed.line)
					}
					pos--
					ed.replace(history[pos])
				}
			case 'B': // Down
				if pos < len(history) {
					pos++
					if pos == len(history) {
						ed.replace(draft)
					} else {
						ed.replace(history[pos])
					}
				}
			case 'C': // Right
				if ed.cursor < len(ed.line) {
					ed.cursor++
					fmt.Fprint(ed.out, "\x1b[C")
				}
			case 'D': // Left
				if ed.cursor > 0 {
					ed.cursor--
					fmt.Fprint(ed.out, "\x1b[D")
				}
			case '3': // Delete: ESC [ 3 ~
				if tilde, ok := ed.readByte(); ok && tilde == '~' {
					ed.deleteAtCursor()
				}
			}

		case 0x01: // Ctrl+A
			if ed.cursor > 0 {
				fmt.Fprintf(ed.out, "\x1b[%dD", ed.cursor)
				ed.cursor = 0
			}

		case 0x05: // Ctrl+E
			if ed.cursor < len(ed.line) {
				fmt.Fprintf(ed.out, "\x1b[%dC", len(ed.line)-ed.cursor)
				ed.cursor = len(ed.line)
			}

		case 0x0b: // Ctrl+K
			if ed.cursor < len(ed.line) {
				ed.line = ed.line[:ed.cursor]
				fmt.Fprint(ed.out, "\x1b[K")
			}

		case 0x15: // Ctrl+U
			if ed.cursor > 0 {
				fmt.Fprintf(ed.out, "\x1b[%dD", ed.cursor)
				ed.line = ed.line[ed.cursor:]
				ed.cursor = 0
				ed.redrawFromCursor()
			}

		default:
			switch {
			case b >= 0x20 && b < 0x7f:
				ed.insert(rune(b))
			case b >= 0x80:
				ed.insert(ed.readRune(b))
			}
		}
	}
}

// readRune completes a multi-byte UTF-8 sequence starting with b.
func (ed *lineEditor) readRune(b byte) rune {
	buf := []byte{b}
	need := 0
	switch {
	case b&0xE0 == 0xC0:
		need = 1
	case b&0xF0 == 0xE0:
		need = 2
	case b&0xF8 == 0xF0:
		need = 3
	}
	for range need {
		c, ok := ed.readByte()
		if !ok {
			break
		}
		buf = append(buf, c)
	}
	r, _ := utf8.DecodeRune(buf)
	return r
}
