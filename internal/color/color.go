package color

import "fmt"

const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
)

func paint(code, s string) string {
	return fmt.Sprintf("%s%s%s", code, s, Reset)
}

func BlueString(s string) string {
	return paint(Blue, s)
}

func YellowString(s string) string {
	return paint(Yellow, s)
}

func GreenString(s string) string {
	return paint(Green, s)
}

func RedString(s string) string {
	return paint(Red, s)
}
