package report

// DefaultShortNames are the report labels of the usual mitigation runs.
var DefaultShortNames = map[string]string{
	"no_sec_conf":              "none",
	"retpoline":                "retpoline",
	"page_table_isolation":     "KPTI",
	"retbleed":                 "IBPB",
	"spectre_v2":               "IBRS",
	"page_poisoning":           "poison",
	"memory_leak_detector":     "kmemleak",
	"kernel_address_sanitizer": "KASAN",
	"init_on_free_alloc":       "init_free_alloc",
}

var unitAbbrev = map[string]string{
	"microseconds": "µs",
	"nanoseconds":  "ns",
	"milliseconds": "ms",
	"seconds":      "s",
	"KB/sec":       "KB/s",
	"MB/sec":       "MB/s",
	"GB/sec":       "GB/s",
}

func AbbrevUnit(unit string) string {
	if a, ok := unitAbbrev[unit]; ok {
		return a
	}
	return unit
}

func displayName(run string, overrides map[string]string) string {
	if n, ok := overrides[run]; ok && n != "" {
		return n
	}
	if n, ok := DefaultShortNames[run]; ok {
		return n
	}
	return run
}
