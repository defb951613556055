package platform

// Role is a system cursor slot, identified by its OCR_* value.
type Role uint32

// Roles lists every standard system cursor replaced on activation.
var Roles = []Role{
	RoleAppStarting,
	RoleNormal,
	RoleCross,
	RoleHand,
	RoleHelp,
	RoleIBeam,
	RoleNo,
	RoleSizeAll,
	RoleSizeNESW,
	RoleSizeNS,
	RoleSizeNWSE,
	RoleSizeWE,
	RoleUp,
	RoleWait,
}

const (
	RoleNormal      Role = 32512
	RoleIBeam       Role = 32513
	RoleWait        Role = 32514
	RoleCross       Role = 32515
	RoleUp          Role = 32516
	RoleSizeNWSE    Role = 32642
	RoleSizeNESW    Role = 32643
	RoleSizeWE      Role = 32644
	RoleSizeNS      Role = 32645
	RoleSizeAll     Role = 32646
	RoleNo          Role = 32648
	RoleHand        Role = 32649
	RoleAppStarting Role = 32650
	RoleHelp        Role = 32651
)

var roleNames = map[Role]string{
	RoleNormal:      "normal",
	RoleIBeam:       "text",
	RoleWait:        "busy",
	RoleCross:       "crosshair",
	RoleUp:          "up",
	RoleSizeNWSE:    "size-nwse",
	RoleSizeNESW:    "size-nesw",
	RoleSizeWE:      "size-we",
	RoleSizeNS:      "size-ns",
	RoleSizeAll:     "size-all",
	RoleNo:          "unavailable",
	RoleHand:        "link",
	RoleAppStarting: "working",
	RoleHelp:        "help",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}
