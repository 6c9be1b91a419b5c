package models

import "time"

type Colors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

type LeagueType string

const (
	LeagueDomestic      LeagueType = "domestic"
	LeagueInternational LeagueType = "international"
	LeagueCup           LeagueType = "cup"
)

type LeagueStatus string

const (
	LeagueActive   LeagueStatus = "active"
	LeagueFinished LeagueStatus = "finished"
	LeagueUpcoming LeagueStatus = "upcoming"
)

type League struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	ShortName       string       `json:"shortName"`
	Logo            string       `json:"logo,omitempty"`
	Country         string       `json:"country"`
	Season          string       `json:"season,omitempty"`
	Type            LeagueType   `json:"type"`
	NumberOfTeams   int          `json:"numberOfTeams"`
	CurrentMatchday int          `json:"currentMatchday,omitempty"`
	Description     string       `json:"description,omitempty"`
	Founded         int          `json:"founded,omitempty"`
	Status          LeagueStatus `json:"status"`
	Colors          Colors       `json:"colors"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

type TeamStats struct {
	Wins         int `json:"wins"`
	Draws        int `json:"draws"`
	Losses       int `json:"losses"`
	GoalsFor     int `json:"goalsFor"`
	GoalsAgainst int `json:"goalsAgainst"`
}

type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ShortName string    `json:"shortName"`
	Logo      string    `json:"logo,omitempty"`
	Country   string    `json:"country"`
	City      string    `json:"city,omitempty"`
	Stadium   string    `json:"stadium,omitempty"`
	Founded   int       `json:"founded,omitempty"`
	League    string    `json:"league,omitempty"`
	Colors    Colors    `json:"colors"`
	Stats     TeamStats `json:"stats"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
