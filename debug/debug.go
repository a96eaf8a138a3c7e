// Package debug gates trace logging on TYRANNO_DEBUG_* env vars.
package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Scan  bool
	Query bool
	Sync  bool
	Pypi  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Scan = boolEnv("TYRANNO_DEBUG_SCAN")
	d.Query = boolEnv("TYRANNO_DEBUG_QUERY")
	d.Sync = boolEnv("TYRANNO_DEBUG_SYNC")
	d.Pypi = boolEnv("TYRANNO_DEBUG_PYPI")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Scan() bool {
	return d.Scan
}
func Query() bool {
	return d.Query
}
func Sync() bool {
	return d.Sync
}
func Pypi() bool {
	return d.Pypi
}
