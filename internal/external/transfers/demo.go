package transfers

// DemoTransfers devolve uma cópia dos dados embutidos
func DemoTransfers() []Transfer {
	out := make([]Transfer, len(demo))
	copy(out, demo)
	return out
}

var demo = []Transfer{
	{
		ID: 1, PlayerName: "Kylian Mbappé", PlayerPhoto: "https://media.api-sports.io/football/players/276.png",
		Position: "Atacante", Age: 25, Nationality: "França",
		FromClub: "Paris Saint-Germain", FromClubLogo: "https://media.api-sports.io/football/teams/85.png",
		ToClub: "Real Madrid", ToClubLogo: "https://media.api-sports.io/football/teams/541.png",
		Fee: "Grátis", Date: "1 Junho 2024", Status: "confirmado",
	},
	{
		ID: 2, PlayerName: "Jude Bellingham", PlayerPhoto: "https://media.api-sports.io/football/players/1100.png",
		Position: "Meio-campista", Age: 21, Nationality: "Inglaterra",
		FromClub: "Borussia Dortmund", FromClubLogo: "https://media.api-sports.io/football/teams/165.png",
		ToClub: "Real Madrid", ToClubLogo: "https://media.api-sports.io/football/teams/541.png",
		Fee: "€103.0M", Date: "14 Junho 2023", Status: "confirmado",
	},
	{
		ID: 3, PlayerName: "Harry Kane", PlayerPhoto: "https://media.api-sports.io/football/players/184.png",
		Position: "Atacante", Age: 30, Nationality: "Inglaterra",
		FromClub: "Tottenham", FromClubLogo: "https://media.api-sports.io/football/teams/47.png",
		ToClub: "Bayern München", ToClubLogo: "https://media.api-sports.io/football/teams/157.png",
		Fee: "€100.0M", Date: "12 Agosto 2023", Status: "confirmado",
	},
	{
		ID: 4, PlayerName: "Declan Rice", PlayerPhoto: "https://media.api-sports.io/football/players/1463.png",
		Position: "Meio-campista", Age: 25, Nationality: "Inglaterra",
		FromClub: "West Ham", FromClubLogo: "https://media.api-sports.io/football/teams/48.png",
		ToClub: "Arsenal", ToClubLogo: "https://media.api-sports.io/football/teams/42.png",
		Fee: "€116.0M", Date: "15 Julho 2023", Status: "confirmado",
	},
}
