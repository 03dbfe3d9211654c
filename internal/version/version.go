package version

import "fmt"

// Заполняются при сборке через -ldflags:
//
//	-X .../internal/version.version=v1.2.3
//	-X .../internal/version.commit=abc1234
//	-X .../internal/version.date=2026-08-30
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info возвращает версию сборки, коммит и дату.
func Info() (v, c, d string) { return version, commit, date }

// String собирает сведения о сборке в одну строку для логов и health-ответа.
func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", version, commit, date)
}
