package rules

const (
	MinAge            = 18
	MaxAge            = 70
	MaxDisplayNameLen = 64
	MaxBioLen         = 1000
	MaxSparringStyles = 8
)

var experienceLevels = map[string]struct{}{
	"beginner":     {},
	"intermediate": {},
	"advanced":     {},
	"professional": {},
}

func ValidExperienceLevel(level string) bool {
	_, ok := experienceLevels[level]
	return ok
}
