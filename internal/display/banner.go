package display

import (
	"fmt"
	"io"

	"github.com/backmassage/docnamer/internal/term"
)

const banner = `     _
  __| | ___   ___ _ __   __ _ _ __ ___   ___ _ __
 / _` + "`" + ` |/ _ \ / __| '_ \ / _` + "`" + ` | '_ ` + "`" + ` _ \ / _ \ '__|
| (_| | (_) | (__| | | | (_| | | | | | |  __/ |
 \__,_|\___/ \___|_| |_|\__,_|_| |_| |_|\___|_|
`

// PrintBanner writes the ASCII art banner to w in magenta when colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta.Sprint(banner))
	fmt.Fprintln(w)
}
