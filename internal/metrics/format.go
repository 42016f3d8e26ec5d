package metrics

import "fmt"

// FormatBytesPerSec renders a throughput value using 1024-based units,
// picking the largest unit whose scaled value is at least 1.0. B/s is shown
// as an integer, larger units with two decimals, so exactly 1024 bytes/sec
// comes out as "1.00 KB/s".
func FormatBytesPerSec(bps float64) string {
	kb := bps / 1024
	mb := kb / 1024
	gb := mb / 1024

	switch {
	case gb >= 1:
		return fmt.Sprintf("%.2f GB/s", gb)
	case mb >= 1:
		return fmt.Sprintf("%.2f MB/s", mb)
	case kb >= 1:
		return fmt.Sprintf("%.2f KB/s", kb)
	default:
		return fmt.Sprintf("%.0f B/s", bps)
	}
}
