package version

import "fmt"

// Подставляются при сборке через -ldflags:
//
//	-X .../internal/version.version=v1.2.3
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info возвращает версию, commit и дату сборки.
func Info() (string, string, string) {
	return version, commit, date
}

// String форматирует информацию о сборке для логов и health-ответа.
func String() string {
	v, c, d := Info()
	return fmt.Sprintf("version=%s commit=%s date=%s", v, c, d)
}
