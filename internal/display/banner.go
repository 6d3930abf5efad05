package display

import (
	"fmt"
	"io"

	"github.com/backmassage/vconcat/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, `                                    _
 __   _____ ___  _ __   ___ __ _| |_
 \ \ / / __/ _ \| '_ \ / __/ _`+"`"+` | __|
  \ V / (_| (_) | | | | (_| (_| | |_
   \_/ \___\___/|_| |_|\___\__,_|\__|
`)
	if term.Enabled() {
		fmt.Fprintln(w, term.NC)
	}
}
