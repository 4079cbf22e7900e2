// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import "github.com/muesli/termenv"

var (
	probingStyle   = termenv.Style{}.Foreground(termenv.ANSIYellow)
	aliveHostStyle = termenv.Style{}.Foreground(termenv.ANSIGreen)
	noneAliveStyle = termenv.Style{}.Foreground(termenv.ANSIRed)
	abortedStyle   = termenv.Style{}.Foreground(termenv.ANSIRed).Bold()
	hostNameStyle  = termenv.Style{}.Faint()
)

var networkNameStyle = termenv.Style{}.Bold()
