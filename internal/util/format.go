// Package util provides numeric helpers for formatting and common operations.
package util

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrUnparseableRatio is returned by EvaluateRatio for malformed input or a
// zero denominator.
var ErrUnparseableRatio = errors.New("unparseable ratio")

// sizePrefixes are the binary prefixes used by HumanSize; Yi is the ceiling.
var sizePrefixes = []string{"", "Ki", "Mi", "Gi", "Ti", "Pi", "Ei", "Zi", "Yi"}

// integerTolerance is how close a frame rate must be to an integer to be
// rendered without decimals.
const integerTolerance = 1e-4

// EvaluateRatio evaluates "N/D", "N:D" or a bare number to a float.
func EvaluateRatio(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrUnparseableRatio)
	}

	sep := strings.IndexAny(s, "/:")
	if sep < 0 {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %q", ErrUnparseableRatio, s)
		}
		return v, nil
	}

	num, err := strconv.ParseFloat(strings.TrimSpace(s[:sep]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparseableRatio, s)
	}
	den, err := strconv.ParseFloat(strings.TrimSpace(s[sep+1:]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparseableRatio, s)
	}
	if den == 0 {
		return 0, fmt.Errorf("%w: zero denominator in %q", ErrUnparseableRatio, s)
	}

	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrUnparseableRatio, s)
	}
	return v, nil
}

// GCD returns the greatest common divisor of a and b.
func GCD(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// ReduceRatio reduces w:h by their greatest common divisor.
func ReduceRatio(w, h int) (int, int) {
	g := GCD(w, h)
	if g == 0 {
		return w, h
	}
	return w / g, h / g
}

// HumanSize formats a byte count with 1024-based prefixes and one decimal,
// e.g. "8.3MiB". Magnitudes beyond the table are expressed in YiB.
func HumanSize(size float64) string {
	last := len(sizePrefixes) - 1
	for _, prefix := range sizePrefixes[:last] {
		if math.Abs(size) < 1024 {
			return fmt.Sprintf("%.1f%sB", size, prefix)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f%sB", size, sizePrefixes[last])
}

// HumanDuration formats seconds as HH:MM:SS.ss. Hours are not wrapped.
func HumanDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}

	centis := int64(math.Round(seconds * 100))
	hours := centis / 360000
	minutes := (centis % 360000) / 6000
	secs := (centis % 6000) / 100
	frac := centis % 100
	return fmt.Sprintf("%02d:%02d:%02d.%02d", hours, minutes, secs, frac)
}

// FrameRateText renders a frame rate as "25 fps" or "23.98 fps".
func FrameRateText(fps float64) string {
	if rounded := math.Round(fps); math.Abs(fps-rounded) < integerTolerance {
		return fmt.Sprintf("%d fps", int64(rounded))
	}
	return fmt.Sprintf("%.2f fps", fps)
}

// BitRateText renders bits per second as whole kilobits per second. Ties
// round half away from zero (math.Round).
func BitRateText(bps float64) string {
	return fmt.Sprintf("%d kb/s", int64(math.Round(bps/1000)))
}
