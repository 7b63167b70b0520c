//go:build windows

package comptr

import (
	"strings"

	"golang.org/x/sys/windows"
)

func systemMessage(hr HResult) string {
	buf := make([]uint16, 512)
	n, err := windows.FormatMessage(
		windows.FORMAT_MESSAGE_FROM_SYSTEM|windows.FORMAT_MESSAGE_IGNORE_INSERTS,
		0, uint32(hr), 0, buf, nil)
	if err != nil || n == 0 {
		return knownMessages[hr]
	}
	return strings.TrimSpace(windows.UTF16ToString(buf[:n]))
}
