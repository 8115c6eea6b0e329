package ticket

// Action is one immutable, timestamped event in a ticket's history. The
// first action of every persisted ticket is the opening one; corrections are
// expressed as new actions, never as edits to old ones.
type Action struct {
	Kind      ActionKind
	Actor     Creator
	Location  ActionLocation
	Timestamp int64
}

// ActionKind is the closed set of things that can happen to a ticket.
// Variants carry their own payload; encode/decode boundaries switch over the
// concrete types exhaustively so a new variant is a compile-visible change.
type ActionKind interface {
	actionKind()
}

type Open struct{ Message string }

type Comment struct{ Message string }

type Assign struct{ Assignment Assignment }

type SetPriority struct{ Priority Priority }

type Reopen struct{}

type CloseWithoutComment struct{}

type CloseWithComment struct{ Message string }

type MassClose struct{}

func (Open) actionKind()                {}
func (Comment) actionKind()             {}
func (Assign) actionKind()              {}
func (SetPriority) actionKind()         {}
func (Reopen) actionKind()              {}
func (CloseWithoutComment) actionKind() {}
func (CloseWithComment) actionKind()    {}
func (MassClose) actionKind()           {}

// IsClosing reports whether the kind closes a ticket, in any of its forms.
func IsClosing(k ActionKind) bool {
	switch k.(type) {
	case CloseWithoutComment, CloseWithComment, MassClose:
		return true
	default:
		return false
	}
}

// Message returns the free-text payload of kinds that carry one: the opening
// statement, comments, and closes with a comment.
func Message(k ActionKind) (string, bool) {
	switch v := k.(type) {
	case Open:
		return v.Message, true
	case Comment:
		return v.Message, true
	case CloseWithComment:
		return v.Message, true
	default:
		return "", false
	}
}

type locationKind uint8

const (
	locationConsole locationKind = iota
	locationPlayer
)

// ActionLocation records where an action was performed: a player position in
// a world, or the console. The server name is only set in multi-server
// deployments.
type ActionLocation struct {
	kind      locationKind
	server    string
	hasServer bool
	world     string
	x, y, z   int
}

func LocationFromConsole(server string, hasServer bool) ActionLocation {
	return ActionLocation{kind: locationConsole, server: server, hasServer: hasServer}
}

func LocationFromPlayer(server string, hasServer bool, world string, x, y, z int) ActionLocation {
	return ActionLocation{
		kind:      locationPlayer,
		server:    server,
		hasServer: hasServer,
		world:     world,
		x:         x,
		y:         y,
		z:         z,
	}
}

func (l ActionLocation) IsConsole() bool { return l.kind == locationConsole }

func (l ActionLocation) Server() (string, bool) {
	return l.server, l.hasServer
}

func (l ActionLocation) World() (string, bool) {
	return l.world, l.kind == locationPlayer
}

func (l ActionLocation) Coordinates() (x, y, z int, ok bool) {
	if l.kind != locationPlayer {
		return 0, 0, 0, false
	}
	return l.x, l.y, l.z, true
}
