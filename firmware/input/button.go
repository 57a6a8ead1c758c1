package input

import "fmt"

// Button identifies one of the directional pad buttons.
type Button uint8

const (
	Up Button = iota + 1
	Down
	Left
	Right
)

// Buttons lists every pad button in a stable order.
var Buttons = [...]Button{Up, Down, Left, Right}

func (b Button) Valid() bool { return b >= Up && b <= Right }

func (b Button) String() string {
	switch b {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return fmt.Sprintf("Button(%d)", uint8(b))
	}
}

// Kind tells a press from a release.
type Kind uint8

const (
	Pressed Kind = iota + 1
	Released
)

func (k Kind) String() string {
	switch k {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Event is a debounced button transition. It is a value type and is copied
// through the channel.
type Event struct {
	Kind   Kind
	Button Button
}

func Press(b Button) Event   { return Event{Kind: Pressed, Button: b} }
func Release(b Button) Event { return Event{Kind: Released, Button: b} }

func (e Event) String() string {
	return "btn " + e.Button.String() + " " + e.Kind.String()
}
