package collections

// Coleções espelhadas no backend remoto
const (
	Users         = "users"
	Bets          = "bets"
	Leagues       = "leagues"
	Teams         = "teams"
	Notifications = "notifications"
)

func Known(name string) bool {
	switch name {
	case Users, Bets, Leagues, Teams, Notifications:
		return true
	}
	return false
}
