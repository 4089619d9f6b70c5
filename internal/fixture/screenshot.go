package fixture

import (
	"path/filepath"
	"strings"
	"time"
)

// ScreenshotTimeFormat is the timestamp layout used in screenshot file names
const ScreenshotTimeFormat = "2006-01-02_15-04-05"

// ScreenshotPath names the failure screenshot of a test taken at ts.
// Subtest separators and characters unsafe in file names become underscores.
func ScreenshotPath(dir, testName string, ts time.Time) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, testName)
	return filepath.Join(dir, name+"_"+ts.Format(ScreenshotTimeFormat)+".png")
}
