package constants

import "os"

func GetServeAddr() string {
	addr := os.Getenv("LYSCORE_ADDR")
	if addr != "" {
		return addr
	}
	return ":8080"
}

func GetLilypondBinary() string {
	bin := os.Getenv("LYSCORE_LILYPOND")
	if bin != "" {
		return bin
	}
	return "lilypond"
}
