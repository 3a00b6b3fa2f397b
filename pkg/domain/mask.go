package domain

import "strings"

// MaskSensitive returns a display form of a sensitive value where every rune
// except the last four is replaced by '*'. Values of four runes or fewer are
// fully masked. This is display masking, not encryption.
func MaskSensitive(value string) string {
	if value == "" {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}
