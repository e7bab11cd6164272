// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cascade

import (
	"fmt"
	"time"

	"github.com/bkuznetsov/patent-engine/pkg/types"
)

// demoSeed describes one synthesized placeholder record. Identifiers,
// dates, people, and classifications are fixed; the title and abstract
// format verbs interpolate the caller's query (R3.5).
type demoSeed struct {
	id        string
	title     string
	abstract  string
	published time.Time
	filed     time.Time
	authors   []string
	holders   []string
	ipcCodes  []string
}

var demoSeeds = []demoSeed{
	{
		id:        "RU2023123456",
		title:     "Invention in the field of %s",
		abstract:  "A technical solution in the field of %s is proposed. The invention improves overall system efficiency through modern data processing techniques.",
		published: time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC),
		filed:     time.Date(2022, time.December, 1, 0, 0, 0, 0, time.UTC),
		authors:   []string{"Ivanov I.I.", "Petrov P.P."},
		holders:   []string{"OOO Innovatsionnye Tekhnologii"},
		ipcCodes:  []string{"G06F", "H04L"},
	},
	{
		id:        "RU2023789012",
		title:     "Method for optimizing %s",
		abstract:  "A new method for optimizing %s processes has been developed. The method delivers a 30%% performance gain and reduced power consumption.",
		published: time.Date(2023, time.August, 20, 0, 0, 0, 0, time.UTC),
		filed:     time.Date(2023, time.February, 10, 0, 0, 0, 0, time.UTC),
		authors:   []string{"Sidorov S.S.", "Kuznetsova A.A."},
		holders:   []string{"ZAO TekhnoServis"},
		ipcCodes:  []string{"G06N", "H04M"},
	},
	{
		id:        "RU2023567890",
		title:     "Control system for %s",
		abstract:  "A control system for %s is proposed. The system includes modules for monitoring, analysis, and automatic adjustment of operating parameters.",
		published: time.Date(2023, time.September, 5, 0, 0, 0, 0, time.UTC),
		filed:     time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC),
		authors:   []string{"Vasilev V.V."},
		holders:   []string{"IP Innovatsii"},
		ipcCodes:  []string{"G05B", "H04W"},
	},
	{
		id:        "RU2023456789",
		title:     "Device for %s",
		abstract:  "A device implementing %s functions has been developed. The device is compact, highly reliable, and simple to operate.",
		published: time.Date(2023, time.October, 12, 0, 0, 0, 0, time.UTC),
		filed:     time.Date(2023, time.April, 20, 0, 0, 0, 0, time.UTC),
		authors:   []string{"Mikhaylova E.N.", "Andreev D.M."},
		holders:   []string{"Korporatsiya TekhInvest"},
		ipcCodes:  []string{"H04B", "G01S"},
	},
	{
		id:        "RU2023345678",
		title:     "Method for analyzing %s",
		abstract:  "A method for analyzing data in the field of %s is proposed. The method uncovers hidden patterns and forecasts how processes will develop.",
		published: time.Date(2023, time.November, 8, 0, 0, 0, 0, time.UTC),
		filed:     time.Date(2023, time.May, 25, 0, 0, 0, 0, time.UTC),
		authors:   []string{"Nikolaev N.N."},
		holders:   []string{"Nauchno-Issledovatelskiy Institut"},
		ipcCodes:  []string{"G06K", "H04N"},
	},
}

// DemoPatents synthesizes up to limit placeholder records for query. Every
// record is flagged Synthetic so downstream consumers can distinguish it
// from live data (R3.6). A non-positive limit returns the full set.
func DemoPatents(query string, limit int) []types.Patent {
	n := len(demoSeeds)
	if limit > 0 && limit < n {
		n = limit
	}

	patents := make([]types.Patent, 0, n)
	for _, seed := range demoSeeds[:n] {
		patents = append(patents, types.NewPatent(types.Patent{
			ID:              seed.id,
			Title:           fmt.Sprintf(seed.title, query),
			PublicationDate: seed.published,
			ApplicationDate: seed.filed,
			Authors:         seed.authors,
			PatentHolders:   seed.holders,
			IPCCodes:        seed.ipcCodes,
			Abstract:        fmt.Sprintf(seed.abstract, query),
			Synthetic:       true,
		}))
	}
	return patents
}
