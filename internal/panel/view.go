package panel

import "fmt"

// View is the screen the panel currently shows.
type View int

const (
	ViewDashboard View = iota
	ViewList
	ViewCreate
	ViewUpdate
)

func (v View) String() string {
	switch v {
	case ViewDashboard:
		return "dashboard"
	case ViewList:
		return "list"
	case ViewCreate:
		return "create"
	case ViewUpdate:
		return "update"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}
