//go:build !windows

package comptr

func systemMessage(hr HResult) string {
	return knownMessages[hr]
}
