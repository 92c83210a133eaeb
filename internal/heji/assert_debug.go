//go:build jispelldebug

package heji

import "fmt"

func assertf(format string, args ...any) {
	panic(fmt.Sprintf("heji: "+format, args...))
}
