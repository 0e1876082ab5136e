package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"mcc-sewer-dashboard/analytics"
	"mcc-sewer-dashboard/models"
	"mcc-sewer-dashboard/services"
)

// Column sets of each export, in file order.
var (
	ManholeColumns = []string{"manhole_id", "road", "ward", "zone", "condition", "material", "cover_type",
		"no_of_connections", "elevation", "depth", "risk_category"}
	PipeColumns       = []string{"pipe_id", "material", "diameter", "length", "layer", "condition", "connected_manholes"}
	GeospatialColumns = []string{"manhole_id", "latitude", "longitude", "condition", "material", "zone"}
	NetworkColumns    = []string{"pipe_id", "start_latitude", "start_longitude", "end_latitude", "end_longitude", "length", "material"}
)

// Filters carries the per-view filters that narrow the manhole and pipe
// exports. The geospatial and network exports use the session tables as is.
type Filters struct {
	Condition models.ConditionFilter
	Pipe      models.PipeFilter
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteManholes writes the risk assessment table.
func WriteManholes(w io.Writer, manholes []models.Manhole) error {
	return writeRows(w, ManholeColumns, len(manholes), func(i int) []string {
		m := manholes[i]
		return []string{
			m.ID, m.Road, m.Ward, m.Zone,
			string(m.Condition), string(m.Material), string(m.CoverType),
			strconv.Itoa(m.Connections),
			formatFloat(m.Elevation), formatFloat(m.Depth),
			string(analytics.Assess(m).Category),
		}
	})
}

// WritePipes writes the pipe inventory.
func WritePipes(w io.Writer, pipes []models.Pipe) error {
	return writeRows(w, PipeColumns, len(pipes), func(i int) []string {
		p := pipes[i]
		return []string{
			p.ID, string(p.Material), string(p.Diameter), formatFloat(p.Length),
			string(p.Layer), string(p.Condition), p.ConnectedPair(),
		}
	})
}

// WriteGeospatial writes manhole coordinates.
func WriteGeospatial(w io.Writer, manholes []models.Manhole) error {
	return writeRows(w, GeospatialColumns, len(manholes), func(i int) []string {
		m := manholes[i]
		return []string{
			m.ID, formatFloat(m.Latitude), formatFloat(m.Longitude),
			string(m.Condition), string(m.Material), m.Zone,
		}
	})
}

// WriteNetwork writes pipe endpoint coordinates.
func WriteNetwork(w io.Writer, pipes []models.Pipe) error {
	return writeRows(w, NetworkColumns, len(pipes), func(i int) []string {
		p := pipes[i]
		return []string{
			p.ID,
			formatFloat(p.Start.Latitude), formatFloat(p.Start.Longitude),
			formatFloat(p.End.Latitude), formatFloat(p.End.Longitude),
			formatFloat(p.Length), string(p.Material),
		}
	})
}

func writeRows(w io.Writer, header []string, n int, row func(i int) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(row(i)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Render produces the CSV body of one export kind for a session.
func Render(kind models.ExportKind, s *services.Session, f Filters) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch kind {
	case models.ExportManholes:
		err = WriteManholes(&buf, services.FilterManholes(s.Manholes(), f.Condition))
	case models.ExportPipes:
		err = WritePipes(&buf, services.FilterPipes(s.Pipes(), f.Pipe))
	case models.ExportGeospatial:
		err = WriteGeospatial(&buf, s.Manholes())
	case models.ExportNetwork:
		err = WriteNetwork(&buf, s.Pipes())
	default:
		return nil, fmt.Errorf("unknown export kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s export: %w", kind, err)
	}
	return buf.Bytes(), nil
}

// FileName is the download name of an export. Dated names use the day of
// now.
func FileName(kind models.ExportKind, now time.Time) string {
	switch kind {
	case models.ExportManholes:
		return "manhole_risk_assessment_" + now.Format("20060102") + ".csv"
	case models.ExportPipes:
		return "pipe_network_" + now.Format("20060102") + ".csv"
	case models.ExportGeospatial:
		return "geospatial_data.csv"
	case models.ExportNetwork:
		return "pipe_network_coordinates.csv"
	default:
		return string(kind) + ".csv"
	}
}
