package preprocessing

import (
	"fmt"
	"io"
	"os"
	"strings"

	"mcc-sewer-dashboard/models"
)

// Source column names of the manhole master table. The connection column
// is misspelt in the surveyed files; the corrected spelling is accepted too.
var (
	colID          = []string{"ID"}
	colMaterial    = []string{"Material"}
	colCondition   = []string{"Condition"}
	colCoverType   = []string{"Cover type"}
	colConnections = []string{"no of connnections", "no of connections"}
	colRoad        = []string{"Road"}
	colWard        = []string{"Ward"}
	colZone        = []string{"Zone"}
)

// ReadManholes normalises a manhole master table. Numeric fields that do not
// parse become 0, empty categorical fields become "Unknown" and absent
// road/ward/zone columns take their defaults. Coordinates are left unset.
// Identifiers must be unique and free of the pipe pair separator.
func ReadManholes(src io.Reader) ([]models.Manhole, error) {
	t, err := newTable(src, "manholes")
	if err != nil {
		return nil, err
	}
	idx, err := t.require("manholes", colID, colMaterial, colCondition, colCoverType, colConnections)
	if err != nil {
		return nil, err
	}
	road, hasRoad := t.column(colRoad...)
	ward, hasWard := t.column(colWard...)
	zone, hasZone := t.column(colZone...)
	optional := func(row []string, i int, ok bool) string {
		if !ok {
			return ""
		}
		return cell(row, i)
	}

	var manholes []models.Manhole
	seen := make(map[string]bool)
	err = t.each("manholes", func(row []string) error {
		m := models.Manhole{
			ID:          cell(row, idx[0]),
			Material:    models.Material(models.TextOrUnknown(cell(row, idx[1]))),
			Condition:   models.ParseCondition(cell(row, idx[2])),
			CoverType:   models.CoverType(models.TextOrUnknown(cell(row, idx[3]))),
			Connections: coerceInt(cell(row, idx[4])),
			Road:        optional(row, road, hasRoad),
			Ward:        optional(row, ward, hasWard),
			Zone:        optional(row, zone, hasZone),
		}
		models.ResolveDefaults(&m)
		if strings.Contains(m.ID, models.PairSeparator) {
			return fmt.Errorf("%w %q: contains pair separator %q", ErrInvalidID, m.ID, models.PairSeparator)
		}
		if seen[m.ID] {
			return fmt.Errorf("%w %q", ErrDuplicateID, m.ID)
		}
		seen[m.ID] = true
		manholes = append(manholes, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return manholes, nil
}

// LoadManholeFile reads a manhole master table from disk. A missing file
// surfaces an error matching fs.ErrNotExist.
func LoadManholeFile(path string) ([]models.Manhole, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manhole table: %w", err)
	}
	defer f.Close()
	return ReadManholes(f)
}
