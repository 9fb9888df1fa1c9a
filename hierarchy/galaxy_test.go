package hierarchy

import "testing"

func TestGalaxySetInfo(t *testing.T) {
	g := NewGalaxy()
	g.SetInfo("Andromeda", "deathmatch", "a test galaxy", 64, false)

	if g.Name() != "Andromeda" {
		t.Fatalf("Name() = %q", g.Name())
	}
	if g.GameMode() != "deathmatch" {
		t.Fatalf("GameMode() = %q", g.GameMode())
	}
	if g.MaxPlayers() != 64 {
		t.Fatalf("MaxPlayers() = %d", g.MaxPlayers())
	}
	if g.Maintenance() {
		t.Fatalf("expected Maintenance() == false")
	}
}

func TestGalaxyOwnPlayerIDUnsetUntilLogin(t *testing.T) {
	g := NewGalaxy()
	if _, ok := g.OwnPlayerID(); ok {
		t.Fatalf("expected own player id unset before login")
	}
	if g.OwnPlayer() != nil {
		t.Fatalf("expected OwnPlayer() nil before login")
	}

	p := NewPlayer(5, PlayerKindPlayer, 0, "captain")
	g.Players.Set(5, p)
	g.SetOwnPlayerID(5)

	id, ok := g.OwnPlayerID()
	if !ok || id != 5 {
		t.Fatalf("OwnPlayerID() = (%d, %v), want (5, true)", id, ok)
	}
	if g.OwnPlayer() != p {
		t.Fatalf("expected OwnPlayer() to return the registered player")
	}
}

func TestGalaxyTeamsClustersPlayersHolders(t *testing.T) {
	g := NewGalaxy()
	if g.Teams.Capacity() != TeamCapacity {
		t.Fatalf("Teams capacity = %d, want %d", g.Teams.Capacity(), TeamCapacity)
	}
	if g.Clusters.Capacity() != ClusterCapacity {
		t.Fatalf("Clusters capacity = %d, want %d", g.Clusters.Capacity(), ClusterCapacity)
	}
	if g.Players.Capacity() != PlayerCapacity {
		t.Fatalf("Players capacity = %d, want %d", g.Players.Capacity(), PlayerCapacity)
	}

	g.Teams.Set(SpectatorTeamID, NewTeam(SpectatorTeamID, "Spectators", Color{}))
	spectators := g.Teams.Get(SpectatorTeamID)
	if spectators == nil || spectators.Name() != "Spectators" {
		t.Fatalf("expected spectator team present at id %d", SpectatorTeamID)
	}
}
