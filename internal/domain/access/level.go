package access

import "strings"

// Level is a project access level. Levels form a total order:
// none < read < write < admin.
type Level string

const (
	LevelNone  Level = "none"
	LevelRead  Level = "read"
	LevelWrite Level = "write"
	LevelAdmin Level = "admin"
)

var levelRank = map[Level]int{
	LevelNone:  0,
	LevelRead:  1,
	LevelWrite: 2,
	LevelAdmin: 3,
}

// Rank returns the numeric position of the level in the order
func (l Level) Rank() int {
	return levelRank[l]
}

// Satisfies reports whether the level meets the required level
func (l Level) Satisfies(required Level) bool {
	return levelRank[l] >= levelRank[required]
}

// roleLevels maps project member roles to their access level
var roleLevels = map[string]Level{
	"owner":           LevelAdmin,
	"admin":           LevelAdmin,
	"project_manager": LevelAdmin,
	"lead_engineer":   LevelWrite,
	"engineer":        LevelWrite,
	"technician":      LevelRead,
	"viewer":          LevelRead,
	"read_only":       LevelRead,
}

// LevelForRole maps a member role to its access level; unknown roles
// grant no access.
func LevelForRole(role string) Level {
	if level, ok := roleLevels[strings.ToLower(role)]; ok {
		return level
	}
	return LevelNone
}

// operationLevels maps operation verbs to the level they require
var operationLevels = map[string]Level{
	"read":   LevelRead,
	"view":   LevelRead,
	"write":  LevelWrite,
	"create": LevelWrite,
	"update": LevelWrite,
	"delete": LevelAdmin,
	"admin":  LevelAdmin,
	"manage": LevelAdmin,
}

// LevelForOperation maps an operation verb to the required access level.
// Unknown operations require write access.
func LevelForOperation(operation string) Level {
	if level, ok := operationLevels[strings.ToLower(operation)]; ok {
		return level
	}
	return LevelWrite
}
