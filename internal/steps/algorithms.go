package steps

import "git.home.luguber.info/inful/mapforge/internal/gen"

// AlgorithmParams bundles the per-step parameter structs so one recipe can
// configure any canned algorithm. Zero values take each step's defaults.
type AlgorithmParams struct {
	Rooms    RoomsParams
	Automata AutomataParams
	Maze     MazeParams
	Trim     TrimParams
}

// BasicRooms is a minimal complete map: random rooms connected into a single
// walkable group.
func BasicRooms(params AlgorithmParams) ([]gen.Step, error) {
	rooms, err := NewRandomRooms(params.Rooms)
	if err != nil {
		return nil, err
	}
	toAreas, err := NewRectsToAreas(TagRooms, TagAreas, false)
	if err != nil {
		return nil, err
	}
	return []gen.Step{rooms, toAreas, NewClosestAreaConnection()}, nil
}

// CellularAutomataAreas is a cave map: smoothed random fill with every
// surviving pocket connected.
func CellularAutomataAreas(params AlgorithmParams) ([]gen.Step, error) {
	caves, err := NewCellularAutomata(params.Automata)
	if err != nil {
		return nil, err
	}
	return []gen.Step{caves, NewClosestAreaConnection()}, nil
}

// DungeonMaze is the full dungeon pipeline: rooms, maze corridors filling the
// leftover space, trimmed dead ends, then everything connected into one
// walkable group.
func DungeonMaze(params AlgorithmParams) ([]gen.Step, error) {
	rooms, err := NewRandomRooms(params.Rooms)
	if err != nil {
		return nil, err
	}
	maze, err := NewMaze(params.Maze)
	if err != nil {
		return nil, err
	}
	trim, err := NewDeadEndTrim(params.Trim)
	if err != nil {
		return nil, err
	}
	roomAreas, err := NewRectsToAreas(TagRooms, TagAreas, false)
	if err != nil {
		return nil, err
	}
	tunnelAreas, err := NewAppendAreaLists(TagTunnels, TagAreas, false)
	if err != nil {
		return nil, err
	}
	return []gen.Step{rooms, maze, trim, roomAreas, tunnelAreas, NewClosestAreaConnection()}, nil
}
