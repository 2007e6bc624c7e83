package web

import (
	"net/http"
	"os"

	"github.com/peterkuimelis/orderflag/internal/game"
)

// PartyInfo is the JSON representation of a preset for /api/parties.
type PartyInfo struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Beat   int    `json:"beat"`
	Action int    `json:"action"`
	Try    int    `json:"try"`
	Total  int    `json:"total"`
}

func (s *Server) handleParties(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.partiesFile)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not read parties file")
		return
	}

	sf, err := game.ParseSetupData(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not parse parties file")
		return
	}

	parties := []PartyInfo{}
	for i, p := range sf.Parties {
		seed, err := p.Seed()
		if err != nil {
			s.logger.Sugar().Warnf("skipping party %q: %v", p.Name, err)
			continue
		}
		z := game.NewZone(seed...)
		parties = append(parties, PartyInfo{
			Number: i + 1,
			Name:   p.Name,
			Beat:   z.CountOf(game.KindBeat),
			Action: z.CountOf(game.KindAction),
			Try:    z.CountOf(game.KindTry),
			Total:  z.Count(),
		})
	}
	writeJSON(w, http.StatusOK, parties)
}
