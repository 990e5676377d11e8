// internal/game/view.go
//
// Player-facing read model of a game.
// Responsibilities:
//   - List every fired coordinate.
//   - Per ship: type, sunk flag, and only the cells that were shot.
//   - Overall isOver flag.

package game

// View is the player-facing read model of a game. A ship's cells only
// appear once they have been shot; un-hit cells are never disclosed.
type View struct {
	ID     string     `json:"id"`
	Shots  []Cell     `json:"shots"`
	Ships  []ShipView `json:"ships"`
	IsOver bool       `json:"isOver"`
}

// Cell is a coordinate split into its column letter and row number.
type Cell struct {
	Column string `json:"column"`
	Row    int    `json:"row"`
}

// ShipView exposes a ship's type, its hit cells and whether it is sunk.
type ShipView struct {
	Type      ShipType `json:"type"`
	Positions []Cell   `json:"positions"`
	IsSunk    bool     `json:"isSunk"`
}

// View projects g into its read model.
func (g *Game) View() View {
	v := View{
		ID:     g.id,
		Shots:  make([]Cell, 0, len(g.shots)),
		Ships:  make([]ShipView, 0, len(g.ships)),
		IsOver: g.IsOver(),
	}
	for _, c := range g.Shots() {
		v.Shots = append(v.Shots, Cell{Column: string(c.Column()), Row: c.Row()})
	}
	for _, s := range g.ships {
		sv := ShipView{Type: s.kind, Positions: []Cell{}, IsSunk: s.IsSunk()}
		for _, p := range s.positions {
			if g.HasShot(p) {
				sv.Positions = append(sv.Positions, Cell{Column: string(p.Column()), Row: p.Row()})
			}
		}
		v.Ships = append(v.Ships, sv)
	}
	return v
}
