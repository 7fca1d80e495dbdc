package teamsrvc

// Color is the role of a team in the exercise.
type Color string

const (
	ColorBlue  Color = "blue"
	ColorRed   Color = "red"
	ColorWhite Color = "white"
)

func (c Color) Valid() bool {
	switch c {
	case ColorBlue, ColorRed, ColorWhite:
		return true
	}
	return false
}

// Team is immutable after competition setup.
type Team struct {
	ID    int
	Name  string
	Color Color
}

func (t Team) IsBlue() bool  { return t.Color == ColorBlue }
func (t Team) IsRed() bool   { return t.Color == ColorRed }
func (t Team) IsWhite() bool { return t.Color == ColorWhite }

// Service is a network-facing capability owned by a blue team. Read-only
// during competition; Points is the weight awarded per passed check.
type Service struct {
	ID         int
	Name       string
	Host       string
	Port       int
	TeamID     int
	CheckName  string
	Enabled    bool
	Points     int
	Properties map[string]string
}

// Account is one credential pair from a service's pool.
type Account struct {
	ID        int
	ServiceID int
	Username  string
	Password  string
}
