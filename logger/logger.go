/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

// Package logger is the central log for the emulator. Entries are tagged
// with the subsystem that made them and kept in a bounded buffer that front
// ends can show or dump on exit.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Entry is a single line in the log.
type Entry struct {
	Tag    string
	Detail string

	// Repeated counts how many times the same entry was logged in a row.
	Repeated int
}

func (e Entry) String() string {
	if e.Repeated > 0 {
		return fmt.Sprintf("%s: %s (x%d)", e.Tag, e.Detail, e.Repeated+1)
	}
	return fmt.Sprintf("%s: %s", e.Tag, e.Detail)
}

// maximum number of entries kept by the central log.
const maxEntries = 256

// only one central log for the entire application.
var central = newLogger(maxEntries)

type logger struct {
	mu sync.Mutex

	// buf contains each logged entry, oldest first.
	buf []Entry
	max int

	// recent is the index of the first entry not yet written by WriteRecent.
	recent int

	// echo receives every new entry as it is logged.
	echo io.Writer
}

func newLogger(max int) *logger {
	return &logger{
		buf: make([]Entry, 0, max),
		max: max,
	}
}

func (l *logger) log(tag, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// fold repeats into the previous entry
	if n := len(l.buf); n > 0 && l.buf[n-1].Tag == tag && l.buf[n-1].Detail == detail {
		l.buf[n-1].Repeated++
		return
	}

	e := Entry{Tag: tag, Detail: detail}

	// drop the oldest entry when full
	if len(l.buf) >= l.max {
		l.buf = append(l.buf[:0], l.buf[1:]...)
		if l.recent > 0 {
			l.recent--
		}
	}

	l.buf = append(l.buf, e)

	if l.echo != nil {
		io.WriteString(l.echo, e.String()+"\n")
	}
}

func (l *logger) window(n int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := len(l.buf) - n

	// don't scroll past the beginning
	if start < 0 {
		start = 0
	}

	return append([]Entry(nil), l.buf[start:]...)
}

// write entries from index onwards. callers hold the lock.
func (l *logger) write(output io.Writer, from int) int {
	if from < 0 {
		from = 0
	}

	var s strings.Builder
	for _, e := range l.buf[min(from, len(l.buf)):] {
		s.WriteString(e.String())
		s.WriteByte('\n')
	}
	io.WriteString(output, s.String())

	return len(l.buf)
}

// Log adds an entry to the central log.
func Log(tag, detail string) {
	central.log(tag, detail)
}

// Logf adds a formatted entry to the central log.
func Logf(tag, detail string, args ...any) {
	central.log(tag, fmt.Sprintf(detail, args...))
}

// Clear all entries from the central log.
func Clear() {
	central.mu.Lock()
	defer central.mu.Unlock()

	central.buf = central.buf[:0]
	central.recent = 0
}

// Write the contents of the central log to output.
func Write(output io.Writer) {
	central.mu.Lock()
	defer central.mu.Unlock()

	central.write(output, 0)
}

// WriteRecent writes only the entries added since the last call.
func WriteRecent(output io.Writer) {
	central.mu.Lock()
	defer central.mu.Unlock()

	central.recent = central.write(output, central.recent)
}

// Tail writes the last n entries to output.
func Tail(output io.Writer, n int) {
	for _, e := range central.window(n) {
		io.WriteString(output, e.String()+"\n")
	}
}

// Window returns up to the last n entries, oldest first.
func Window(n int) []Entry {
	return central.window(n)
}

// SetEcho prints every new entry to output. A nil output stops echoing.
func SetEcho(output io.Writer) {
	central.mu.Lock()
	defer central.mu.Unlock()

	central.echo = output
}
