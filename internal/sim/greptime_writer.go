package sim

import (
	"context"
	"log"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// DefaultCurveTable is used when no table name is configured.
const DefaultCurveTable = "membership_cost_curves"

// greptimeClient is the subset of the ingester client used by the writer.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes curve rows to GreptimeDB via the ingester client
type GreptimeDBWriter struct {
	client greptimeClient
	table  string
}

// NewGreptimeDBWriter connects to GreptimeDB at host. The table is created by
// the first write.
func NewGreptimeDBWriter(host, database, tableName string) (*GreptimeDBWriter, error) {
	cfg := greptime.NewConfig(host).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if tableName == "" {
		tableName = DefaultCurveTable
	}
	return &GreptimeDBWriter{client: client, table: tableName}, nil
}

// Write inserts a single curve row.
func (w *GreptimeDBWriter) Write(row CurveRow) error {
	return w.WriteBatch([]CurveRow{row})
}

// WriteBatch inserts multiple curve rows.
func (w *GreptimeDBWriter) WriteBatch(rows []CurveRow) error {
	if len(rows) == 0 {
		return nil
	}

	tbl, err := w.newTable()
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := tbl.AddRow(
			r.RunID,
			r.Scheme,
			r.Disruption,
			int64(r.Affected),
			r.Energy,
			r.Communication,
			r.EnergyStdDev,
			r.CommunicationStdDev,
			r.Flagged,
			int64(r.Iterations),
			r.Timestamp,
		); err != nil {
			return err
		}
	}

	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		log.Printf("[GreptimeDBWriter] write failed: %v", err)
		return err
	}
	log.Printf("[GreptimeDBWriter] wrote %d rows", len(rows))
	return nil
}

func (w *GreptimeDBWriter) newTable() (*table.Table, error) {
	tbl, err := table.New(w.table)
	if err != nil {
		return nil, err
	}
	steps := []func() error{
		func() error { return tbl.AddTagColumn("run_id", types.STRING) },
		func() error { return tbl.AddTagColumn("scheme", types.STRING) },
		func() error { return tbl.AddTagColumn("disruption", types.STRING) },
		func() error { return tbl.AddTagColumn("affected", types.INT64) },
		func() error { return tbl.AddFieldColumn("energy", types.FLOAT64) },
		func() error { return tbl.AddFieldColumn("communication", types.FLOAT64) },
		func() error { return tbl.AddFieldColumn("energy_stddev", types.FLOAT64) },
		func() error { return tbl.AddFieldColumn("communication_stddev", types.FLOAT64) },
		func() error { return tbl.AddFieldColumn("flagged", types.FLOAT64) },
		func() error { return tbl.AddFieldColumn("iterations", types.INT64) },
		func() error { return tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}
