// Hanks Tank - MLB Data Collection and Warehouse Pipeline
// Copyright 2026 Elijah Craig (elijahcraig45)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/elijahcraig45/hanks-tank-ml-sub001

/*
upstream.go - MLB Stats API response shapes

Wire-format structs for the statsapi.mlb.com/api/v1 endpoints the collector
consumes. Only the fields we normalize are declared; everything else in the
upstream documents is ignored by the decoder.
*/

package sources

// scheduleResponse is the /schedule envelope.
type scheduleResponse struct {
	Dates []struct {
		Date  string         `json:"date"`
		Games []scheduleGame `json:"games"`
	} `json:"dates"`
}

type scheduleGame struct {
	GamePk       int64  `json:"gamePk"`
	GameType     string `json:"gameType"`
	OfficialDate string `json:"officialDate"`
	GameNumber   int    `json:"gameNumber"`
	DoubleHeader string `json:"doubleHeader"`
	Status       struct {
		DetailedState string `json:"detailedState"`
	} `json:"status"`
	Teams struct {
		Home scheduleSide `json:"home"`
		Away scheduleSide `json:"away"`
	} `json:"teams"`
	Venue upstreamVenue `json:"venue"`
}

type scheduleSide struct {
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	Score *int `json:"score"`
}

type upstreamVenue struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// liveFeedResponse is the /game/{gamePk}/feed/live envelope, trimmed to the
// game-context and linescore fields the GameRecord needs.
type liveFeedResponse struct {
	GameData struct {
		Game struct {
			Pk     int64  `json:"pk"`
			Type   string `json:"type"`
			Season string `json:"season"`
		} `json:"game"`
		Datetime struct {
			OfficialDate string `json:"officialDate"`
			DayNight     string `json:"dayNight"`
		} `json:"datetime"`
		Status struct {
			DetailedState string `json:"detailedState"`
		} `json:"status"`
		Teams struct {
			Home struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			} `json:"home"`
			Away struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			} `json:"away"`
		} `json:"teams"`
		Venue   upstreamVenue `json:"venue"`
		Weather struct {
			Condition string `json:"condition"`
			Temp      string `json:"temp"`
			Wind      string `json:"wind"`
		} `json:"weather"`
	} `json:"gameData"`
	LiveData struct {
		Linescore struct {
			Teams struct {
				Home struct {
					Runs *int `json:"runs"`
				} `json:"home"`
				Away struct {
					Runs *int `json:"runs"`
				} `json:"away"`
			} `json:"teams"`
		} `json:"linescore"`
	} `json:"liveData"`
}

// playByPlayResponse is the /game/{gamePk}/playByPlay envelope.
type playByPlayResponse struct {
	AllPlays []upstreamPlay `json:"allPlays"`
}

type upstreamPlay struct {
	About struct {
		AtBatIndex int `json:"atBatIndex"`
	} `json:"about"`
	Matchup struct {
		Pitcher struct {
			ID int `json:"id"`
		} `json:"pitcher"`
		Batter struct {
			ID int `json:"id"`
		} `json:"batter"`
	} `json:"matchup"`
	PlayEvents []upstreamPlayEvent `json:"playEvents"`
}

type upstreamPlayEvent struct {
	IsPitch     bool `json:"isPitch"`
	PitchNumber int  `json:"pitchNumber"`
	Details     struct {
		Description string `json:"description"`
		Type        struct {
			Code string `json:"code"`
		} `json:"type"`
	} `json:"details"`
	PitchData struct {
		StartSpeed  *float64 `json:"startSpeed"`
		EndSpeed    *float64 `json:"endSpeed"`
		Zone        *int     `json:"zone"`
		Coordinates struct {
			X *float64 `json:"x"`
			Y *float64 `json:"y"`
		} `json:"coordinates"`
	} `json:"pitchData"`
}

// statsResponse covers /stats and /teams/stats: a list of stat groups, each
// with splits carrying a free-form stat object.
type statsResponse struct {
	Stats []struct {
		Group struct {
			DisplayName string `json:"displayName"`
		} `json:"group"`
		Splits []statSplit `json:"splits"`
	} `json:"stats"`
}

type statSplit struct {
	Player struct {
		ID       int    `json:"id"`
		FullName string `json:"fullName"`
	} `json:"player"`
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	// Stat keys vary by group; values are numbers or strings upstream.
	Stat map[string]interface{} `json:"stat"`
}

// transactionsResponse is the /transactions envelope.
type transactionsResponse struct {
	Transactions []struct {
		Person struct {
			ID       int    `json:"id"`
			FullName string `json:"fullName"`
		} `json:"person"`
		FromTeam struct {
			ID int `json:"id"`
		} `json:"fromTeam"`
		ToTeam struct {
			ID int `json:"id"`
		} `json:"toTeam"`
		EffectiveDate string `json:"effectiveDate"`
		Date          string `json:"date"`
		TypeCode      string `json:"typeCode"`
		Description   string `json:"description"`
	} `json:"transactions"`
}

// rosterResponse is the /teams/{teamId}/roster envelope.
type rosterResponse struct {
	Roster []struct {
		Person struct {
			ID       int    `json:"id"`
			FullName string `json:"fullName"`
		} `json:"person"`
		JerseyNumber string `json:"jerseyNumber"`
		Position     struct {
			Abbreviation string `json:"abbreviation"`
		} `json:"position"`
		Status struct {
			Code string `json:"code"`
		} `json:"status"`
	} `json:"roster"`
}

// standingsResponse is the /standings envelope.
type standingsResponse struct {
	Records []struct {
		Division struct {
			ID int `json:"id"`
		} `json:"division"`
		TeamRecords []struct {
			Team struct {
				ID int `json:"id"`
			} `json:"team"`
			Wins              int    `json:"wins"`
			Losses            int    `json:"losses"`
			WinningPercentage string `json:"winningPercentage"`
			GamesBack         string `json:"gamesBack"`
			DivisionRank      string `json:"divisionRank"`
		} `json:"teamRecords"`
	} `json:"records"`
}
