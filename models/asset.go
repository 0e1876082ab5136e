package models

import "time"

// Location is a WGS-84 coordinate in decimal degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Manhole is an access point of the sewer network, the node entity.
type Manhole struct {
	ID          string    `json:"manhole_id"`
	Material    Material  `json:"material"`
	Condition   Condition `json:"condition"`
	CoverType   CoverType `json:"cover_type"`
	Connections int       `json:"no_of_connections"`
	Road        string    `json:"road"`
	Ward        string    `json:"ward"`
	Zone        string    `json:"zone"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Elevation   float64   `json:"elevation"`
	Depth       float64   `json:"depth"`

	// Only populated for synthetic tables.
	InstallationYear int        `json:"installation_year,omitempty"`
	LastInspection   *time.Time `json:"last_inspection,omitempty"`
	FlowRate         float64    `json:"flow_rate,omitempty"`
}

// Location returns the manhole position.
func (m Manhole) Location() Location {
	return Location{Latitude: m.Latitude, Longitude: m.Longitude}
}

// Pipe is a run between two manholes, the edge entity.
type Pipe struct {
	ID                string    `json:"pipe_id"`
	Start             Location  `json:"start"`
	End               Location  `json:"end"`
	Length            float64   `json:"length"`
	Material          Material  `json:"material"`
	Diameter          Diameter  `json:"diameter"`
	Layer             Layer     `json:"layer"`
	Depth             float64   `json:"depth"`
	Slope             float64   `json:"slope"`
	FlowCapacity      float64   `json:"flow_capacity"`
	Condition         Condition `json:"condition"`
	StartManhole      string    `json:"start_manhole"`
	EndManhole        string    `json:"end_manhole"`
	InstallationYear  int       `json:"installation_year,omitempty"`
	MaintenanceStatus string    `json:"maintenance_status,omitempty"`
}

// PairSeparator joins the two manhole identifiers of a pipe.
const PairSeparator = "-"

// ConnectedPair serialises the endpoint identifiers as "<start>-<end>".
func (p Pipe) ConnectedPair() string {
	return p.StartManhole + PairSeparator + p.EndManhole
}

// DataSource records where a table came from.
type DataSource string

const (
	SourceFile      DataSource = "file"
	SourceSynthetic DataSource = "synthetic"
	// SourceFallback means a source file existed but could not be used.
	SourceFallback DataSource = "fallback"
)

// SourcePipe is one row of a pipe source table as read. The served network
// is regenerated against the manhole table, so these rows are kept for
// inspection only.
type SourcePipe struct {
	ID       string   `json:"pipe_id"`
	Length   float64  `json:"length"`
	Material Material `json:"material"`
	Layer    Layer    `json:"layer"`
	Diameter Diameter `json:"diameter"`
}

// Dataset is the immutable pair of tables shared by every view.
type Dataset struct {
	Manholes      []Manhole    `json:"manholes"`
	Pipes         []Pipe       `json:"pipes"`
	SourcePipes   []SourcePipe `json:"source_pipes,omitempty"`
	ManholeSource DataSource   `json:"manhole_source"`
	PipeSource    DataSource   `json:"pipe_source"`
	Warnings      []string     `json:"warnings,omitempty"`
	Seed          uint64       `json:"seed"`
	LoadedAt      time.Time    `json:"loaded_at"`
}

// ManholeIndex maps identifiers to positions in the manhole table.
func (d *Dataset) ManholeIndex() map[string]int {
	idx := make(map[string]int, len(d.Manholes))
	for i, m := range d.Manholes {
		idx[m.ID] = i
	}
	return idx
}
