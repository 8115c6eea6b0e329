package ticket

import "github.com/google/uuid"

type creatorKind uint8

const (
	creatorUser creatorKind = iota + 1
	creatorConsole
	creatorOther
)

// Creator identifies the entity that owns a ticket or performed an action on
// one. It is a closed set: a player (by UUID), the console, or a placeholder
// used for operations that target many tickets at once. Placeholder creators
// must never reach persistent storage.
type Creator struct {
	kind creatorKind
	uuid uuid.UUID
	tag  string
}

func NewUser(id uuid.UUID) Creator {
	return Creator{kind: creatorUser, uuid: id}
}

func NewConsole() Creator {
	return Creator{kind: creatorConsole}
}

// NewOther builds a placeholder creator. The tag is only used for logging and
// equality; it is rejected by every serialization boundary.
func NewOther(tag string) Creator {
	return Creator{kind: creatorOther, tag: tag}
}

func (c Creator) IsUser() bool    { return c.kind == creatorUser }
func (c Creator) IsConsole() bool { return c.kind == creatorConsole }
func (c Creator) IsOther() bool   { return c.kind == creatorOther }

// UUID returns the player UUID when the creator is a user.
func (c Creator) UUID() (uuid.UUID, bool) {
	return c.uuid, c.kind == creatorUser
}

// Tag returns the placeholder tag when the creator is neither a user nor the
// console.
func (c Creator) Tag() (string, bool) {
	return c.tag, c.kind == creatorOther
}

// Equal compares two creators structurally: users are equal iff their UUIDs
// match, consoles are always equal to each other.
func (c Creator) Equal(other Creator) bool {
	return c == other
}

func (c Creator) String() string {
	switch c.kind {
	case creatorUser:
		return "user " + c.uuid.String()
	case creatorConsole:
		return "console"
	case creatorOther:
		return "other " + c.tag
	default:
		return "unknown creator"
	}
}
