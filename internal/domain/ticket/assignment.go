package ticket

import "strings"

// GroupPrefix marks an assignment name as a permission-group token rather
// than a player name.
const GroupPrefix = "::"

type assignmentKind uint8

const (
	assignedNobody assignmentKind = iota
	assignedConsole
	assignedNamed
)

// Assignment is the identity a ticket is currently routed to: nobody, the
// console, or a name. Names carrying the GroupPrefix address a whole
// permission group instead of a single player.
type Assignment struct {
	kind assignmentKind
	name string
}

func AssignNobody() Assignment {
	return Assignment{kind: assignedNobody}
}

func AssignConsole() Assignment {
	return Assignment{kind: assignedConsole}
}

func AssignNamed(name string) Assignment {
	return Assignment{kind: assignedNamed, name: name}
}

// AssignGroup builds a group assignment from a raw group name, adding the
// prefix when it is not already present.
func AssignGroup(group string) Assignment {
	if !strings.HasPrefix(group, GroupPrefix) {
		group = GroupPrefix + group
	}
	return Assignment{kind: assignedNamed, name: group}
}

func (a Assignment) IsNobody() bool  { return a.kind == assignedNobody }
func (a Assignment) IsConsole() bool { return a.kind == assignedConsole }

// Name returns the assigned name when the assignment targets a player or
// group.
func (a Assignment) Name() (string, bool) {
	return a.name, a.kind == assignedNamed
}

// IsGroup reports whether the assignment targets a permission group.
func (a Assignment) IsGroup() bool {
	return a.kind == assignedNamed && strings.HasPrefix(a.name, GroupPrefix)
}

func (a Assignment) String() string {
	switch a.kind {
	case assignedNobody:
		return "nobody"
	case assignedConsole:
		return "console"
	default:
		return a.name
	}
}
