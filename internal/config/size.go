package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
)

// ParseSize converts a human-readable memory size to bytes.
//
// IEC suffixes (KiB, MiB, GiB, TiB, PiB; case-insensitive) are accepted, as
// is a bare integer which is interpreted as KiB. Whitespace anywhere in the
// value is ignored, so "4 GiB" and "4GiB" are equal.
func ParseSize(s string) (int64, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	if compact == "" {
		return 0, fmt.Errorf("empty size")
	}

	if n, err := strconv.ParseInt(compact, 10, 64); err == nil {
		if n < 0 || n > math.MaxInt64/humanize.KiByte {
			return 0, fmt.Errorf("size %q out of range", s)
		}
		return n * humanize.KiByte, nil
	}

	if !hasIECSuffix(compact) {
		return 0, fmt.Errorf("unsupported size %q (IEC units supported: KiB, MiB, GiB, TiB, PiB)", s)
	}

	if _, err := strconv.ParseUint(compact[:len(compact)-3], 10, 64); err != nil {
		return 0, fmt.Errorf("unsupported size %q: amount must be a whole number", s)
	}

	b, err := humanize.ParseBytes(compact)
	if err != nil {
		return 0, fmt.Errorf("unsupported size %q: %w", s, err)
	}
	if b > math.MaxInt64 {
		return 0, fmt.Errorf("size %q out of range", s)
	}
	return int64(b), nil
}

func hasIECSuffix(s string) bool {
	if len(s) <= 3 {
		return false
	}
	suffix := strings.ToLower(s[len(s)-3:])
	switch suffix {
	case "kib", "mib", "gib", "tib", "pib":
		return true
	}
	return false
}
