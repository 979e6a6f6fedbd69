package store

import (
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/fortuna/boreas/internal/season"
)

type seedTeam struct {
	name     string
	division string
	arena    string
	capacity int
}

var seedDivisions = map[string]string{
	"Atlantic": "Eastern",
	"North":    "Eastern",
	"Central":  "Western",
	"Pacific":  "Western",
}

// The league as of 2024-25. Older games reference defunct teams by name
// only; those rows are not part of the seed.
var seedTeams = []seedTeam{
	{"Bridgeport Islanders", "Atlantic", "Total Mortgage Arena", 10000},
	{"Charlotte Checkers", "Atlantic", "Bojangles Coliseum", 8600},
	{"Hartford Wolf Pack", "Atlantic", "XL Center", 15635},
	{"Hershey Bears", "Atlantic", "Giant Center", 10500},
	{"Lehigh Valley Phantoms", "Atlantic", "PPL Center", 8500},
	{"Providence Bruins", "Atlantic", "Amica Mutual Pavilion", 11075},
	{"Springfield Thunderbirds", "Atlantic", "MassMutual Center", 6793},
	{"Wilkes-Barre/Scranton Penguins", "Atlantic", "Mohegan Sun Arena at Casey Plaza", 8300},

	{"Belleville Senators", "North", "CAA Arena", 4400},
	{"Cleveland Monsters", "North", "Rocket Mortgage FieldHouse", 18926},
	{"Laval Rocket", "North", "Place Bell", 10062},
	{"Rochester Americans", "North", "Blue Cross Arena", 10662},
	{"Syracuse Crunch", "North", "Upstate Medical University Arena", 6159},
	{"Toronto Marlies", "North", "Coca-Cola Coliseum", 8140},
	{"Utica Comets", "North", "Adirondack Bank Center", 3860},

	{"Chicago Wolves", "Central", "Allstate Arena", 16692},
	{"Grand Rapids Griffins", "Central", "Van Andel Arena", 10834},
	{"Iowa Wild", "Central", "Wells Fargo Arena", 15181},
	{"Manitoba Moose", "Central", "Canada Life Centre", 15321},
	{"Milwaukee Admirals", "Central", "UW-Milwaukee Panther Arena", 9652},
	{"Rockford IceHogs", "Central", "BMO Center", 5895},
	{"Texas Stars", "Central", "H-E-B Center at Cedar Park", 6863},

	{"Abbotsford Canucks", "Pacific", "Abbotsford Centre", 7046},
	{"Bakersfield Condors", "Pacific", "Mechanics Bank Arena", 8806},
	{"Calgary Wranglers", "Pacific", "Scotiabank Saddledome", 19289},
	{"Coachella Valley Firebirds", "Pacific", "Acrisure Arena", 10087},
	{"Colorado Eagles", "Pacific", "Blue Arena", 5289},
	{"Henderson Silver Knights", "Pacific", "Lee's Family Forum", 5567},
	{"Ontario Reign", "Pacific", "Toyota Arena", 9736},
	{"San Diego Gulls", "Pacific", "Pechanga Arena", 12920},
	{"San Jose Barracuda", "Pacific", "Tech CU Arena", 4200},
	{"Tucson Roadrunners", "Pacific", "Tucson Arena", 8962},
}

// SeedLeague populates conferences, divisions, franchises, teams, arenas
// and seasons. Existing rows are left untouched, so it is safe to run
// repeatedly. Returns the number of rows created.
func (d *Database) SeedLeague() (int, error) {
	created := 0

	conferenceIDs := map[string]uint{}
	for _, name := range []string{"Eastern", "Western"} {
		row := Conference{Name: name}
		res := d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			return created, fmt.Errorf("seeding conference %s: %w", name, res.Error)
		}
		created += int(res.RowsAffected)

		var saved Conference
		if err := d.db.Where("name = ?", name).First(&saved).Error; err != nil {
			return created, fmt.Errorf("reloading conference %s: %w", name, err)
		}
		conferenceIDs[name] = saved.ID
	}

	divisionIDs := map[string]uint{}
	for _, name := range []string{"Atlantic", "North", "Central", "Pacific"} {
		row := Division{Name: name, ConferenceID: conferenceIDs[seedDivisions[name]]}
		res := d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			return created, fmt.Errorf("seeding division %s: %w", name, res.Error)
		}
		created += int(res.RowsAffected)

		var saved Division
		if err := d.db.Where("name = ?", name).First(&saved).Error; err != nil {
			return created, fmt.Errorf("reloading division %s: %w", name, err)
		}
		divisionIDs[name] = saved.ID
	}

	for _, t := range seedTeams {
		franchise := Franchise{Name: t.name}
		res := d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&franchise)
		if res.Error != nil {
			return created, fmt.Errorf("seeding franchise %s: %w", t.name, res.Error)
		}
		created += int(res.RowsAffected)

		var savedFranchise Franchise
		if err := d.db.Where("name = ?", t.name).First(&savedFranchise).Error; err != nil {
			return created, fmt.Errorf("reloading franchise %s: %w", t.name, err)
		}

		divisionID := divisionIDs[t.division]
		team := Team{Name: t.name, DivisionID: &divisionID, FranchiseID: &savedFranchise.ID}
		res = d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&team)
		if res.Error != nil {
			return created, fmt.Errorf("seeding team %s: %w", t.name, res.Error)
		}
		created += int(res.RowsAffected)

		var savedTeam Team
		if err := d.db.Where("name = ?", t.name).First(&savedTeam).Error; err != nil {
			return created, fmt.Errorf("reloading team %s: %w", t.name, err)
		}

		arena := Arena{Name: t.arena, TeamID: &savedTeam.ID, Capacity: t.capacity}
		res = d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&arena)
		if res.Error != nil {
			return created, fmt.Errorf("seeding arena %s: %w", t.arena, res.Error)
		}
		created += int(res.RowsAffected)
	}

	defs := season.Definitions()
	for _, def := range defs {
		row := Season{ID: def.ID}
		res := d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			return created, fmt.Errorf("seeding season %s: %w", def.ID, res.Error)
		}
		created += int(res.RowsAffected)
	}
	// Flag the newest season as current.
	if len(defs) > 0 {
		latest := defs[len(defs)-1].ID
		if err := d.db.Model(&Season{}).Where("current_yn = ?", true).Where("season <> ?", latest).
			Update("current_yn", false).Error; err != nil {
			return created, fmt.Errorf("clearing current season: %w", err)
		}
		if err := d.db.Model(&Season{}).Where("season = ?", latest).
			Update("current_yn", true).Error; err != nil {
			return created, fmt.Errorf("setting current season: %w", err)
		}
	}

	return created, nil
}
