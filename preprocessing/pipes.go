package preprocessing

import (
	"fmt"
	"io"
	"os"

	"mcc-sewer-dashboard/models"
)

const defaultSourceLength = 50

// ReadPipes reads a pipe source table. Every column is optional; rows
// without an identifier are numbered PIPE0001 onward.
func ReadPipes(src io.Reader) ([]models.SourcePipe, error) {
	t, err := newTable(src, "pipes")
	if err != nil {
		return nil, err
	}
	id, hasID := t.column("ID")
	length, ok := t.column("Length")
	if !ok {
		length = -1
	}
	material, hasMaterial := t.column("Material")
	layer, hasLayer := t.column("Layer")
	diameter, hasDiameter := t.column("Diameter")
	orDefault := func(row []string, i int, ok bool, def string) string {
		if !ok {
			return def
		}
		return cell(row, i)
	}

	var records []models.SourcePipe
	err = t.each("pipes", func(row []string) error {
		rec := models.SourcePipe{
			ID:       orDefault(row, id, hasID, ""),
			Length:   coerceFloat(cell(row, length), defaultSourceLength),
			Material: models.Material(orDefault(row, material, hasMaterial, string(models.MaterialPVC))),
			Layer:    models.Layer(orDefault(row, layer, hasLayer, string(models.Layer1))),
			Diameter: models.Diameter(orDefault(row, diameter, hasDiameter, string(models.Diameter300))),
		}
		if rec.ID == "" {
			rec.ID = fmt.Sprintf("PIPE%04d", len(records)+1)
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// LoadPipeFile reads a pipe source table from disk.
func LoadPipeFile(path string) ([]models.SourcePipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pipe table: %w", err)
	}
	defer f.Close()
	return ReadPipes(f)
}
