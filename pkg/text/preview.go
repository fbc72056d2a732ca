package text

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// PreviewWidth is the display width used for log previews.
const PreviewWidth = 50

var previewCond = func() *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	cond.StrictEmojiNeutral = true
	return cond
}()

// Preview returns s cut to width display columns with control characters escaped, suitable for a
// single log line. A trailing "..." marks truncated text.
func Preview(s string, width int) string {
	s = strings.NewReplacer("\r", `\r`, "\n", `\n`, "\t", `\t`).Replace(s)
	if previewCond.StringWidth(s) <= width {
		return s
	}
	return previewCond.Truncate(s, width, "...")
}
