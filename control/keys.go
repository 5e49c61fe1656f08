package control

import "TrafficLight/light"

// CommandForKey maps a key press to a command. Space toggles according to
// the current run state: start when stopped, stop when running and resume
// when paused.
func CommandForKey(r rune, state light.RunState) (Command, bool) {
	switch r {
	case ' ':
		switch state {
		case light.Stopped:
			return Command{Type: CmdStart}, true
		case light.Running:
			return Command{Type: CmdStop}, true
		case light.Paused:
			return Command{Type: CmdResume}, true
		}
	case 's', 'S':
		return Command{Type: CmdStart}, true
	case 'p', 'P':
		return Command{Type: CmdStop}, true
	case 'r', 'R':
		return Command{Type: CmdResume}, true
	case 'x', 'X':
		return Command{Type: CmdReset}, true
	}
	return Command{}, false
}
