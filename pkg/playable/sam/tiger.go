package sam

// tigerAnchorID is the seat tiger ties are measured from: the previous winner
// while they are still at the table, otherwise the start player
func (t *Table) tigerAnchorID() string {
	if t.LastGame != nil && t.Game.Player(t.LastGame.WinnerID) != nil {
		return t.LastGame.WinnerID
	}

	return t.Game.StartPlayerID
}

// tieBreakOrder returns the seats starting just after the anchor, the anchor itself last
func tieBreakOrder(players []GamePlayer, anchorID string) []string {
	rotated := rotate(players, anchorID)
	if len(rotated) == 0 || rotated[0].ID != anchorID {
		return playerIDs(rotated)
	}

	ids := playerIDs(rotated[1:])
	return append(ids, anchorID)
}

// ResolveTigers picks the single tiger declarer that survives hand checking.
// The highest white tiger tier wins, ties go to the first declarer after the anchor seat.
// The selected player becomes the current and start player. Other declarers lose their marker.
// The game passed in is not modified.
func ResolveTigers(g *Game, anchorID string) (*Game, string) {
	resolved := g.Clone()
	tigers := resolved.tigers()
	if len(tigers) == 0 {
		return resolved, ""
	}

	best := NotSpecial
	tiers := make(map[string]Tier, len(tigers))
	for _, gp := range tigers {
		tier := CheckWhiteTiger(gp.Cards)
		tiers[gp.ID] = tier
		if tier > best {
			best = tier
		}
	}

	selectedID := ""
	for _, id := range tieBreakOrder(resolved.Players, anchorID) {
		if tier, ok := tiers[id]; ok && tier == best {
			selectedID = id
			break
		}
	}

	for i := range resolved.Players {
		gp := &resolved.Players[i]
		if gp.LastAction == LastActionTiger && gp.ID != selectedID {
			gp.LastAction = LastActionNone
		}
	}

	resolved.CurrentPlayerID = selectedID
	resolved.StartPlayerID = selectedID
	return resolved, selectedID
}
