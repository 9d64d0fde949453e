package tray

// The Windows tray only accepts ICO images.
func platformEncode(png []byte) []byte {
	return wrapICO(png, IconSize)
}
