package color

import (
	"os"

	"github.com/muesli/termenv"
)

var profile = termenv.EnvColorProfile()

func init() {
	if os.Getenv("NO_COLOR") != "" || !isTerminal() {
		profile = termenv.Ascii
	}
}

func isTerminal() bool {
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

// EnableColor switches colored output on (ANSI256) or off (plain text)
func EnableColor(enable bool) {
	if enable {
		profile = termenv.ANSI256
		return
	}
	profile = termenv.Ascii
}

func IsColorEnabled() bool {
	return profile != termenv.Ascii
}

func colorize(ansi, text string) string {
	return profile.String(text).Foreground(profile.Color(ansi)).String()
}

func RedText(text string) string {
	return colorize("1", text)
}

func GreenText(text string) string {
	return colorize("2", text)
}

func YellowText(text string) string {
	return colorize("3", text)
}

func BlueText(text string) string {
	return colorize("4", text)
}

func CyanText(text string) string {
	return colorize("6", text)
}

func GrayText(text string) string {
	return colorize("8", text)
}

func BoldText(text string) string {
	return profile.String(text).Bold().String()
}

func Warning(message string) string {
	if !IsColorEnabled() {
		return "Warning: " + message
	}
	return YellowText("Warning: ") + message
}
