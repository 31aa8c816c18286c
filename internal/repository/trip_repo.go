package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/adhamhusein/mio-super-app/internal/model"
)

// InsertTripParams feeds MOSA_TV_INSERT_TRIP. Nil optional fields are passed
// to the procedure as NULL.
type InsertTripParams struct {
	ReportTime  time.Time
	EquipmentNo string
	OperatorID  string
	OprShift    *string
	LoaderID    *string
	PosName     *string
	Distance    *string
}

// ModifyTripParams feeds MOSA_TV_MODIFY_TRIP. Nil fields mean "no change".
type ModifyTripParams struct {
	ID         string
	ReportTime *time.Time
	LoaderID   *string
	PosName    *string
	Distance   *string
}

// UpdateShiftParams feeds MOSA_TV_UPDATE_SHIFT, reconciling a shift boundary
// across the adjacent record pair in one call.
type UpdateShiftParams struct {
	ID             string
	NextID         string
	ReportTime     *time.Time
	NextReportTime *time.Time
	Equipment      string
	OperatorID     string
	HM             *float64
	NextHM         *float64
	OprShift       string
	NewShift       string
}

// LoginUpdateParams feeds the append-only MOSA_TV_INSERT_LOGIN_UPDATE audit
// procedure. Before/after operator and shift always match in the HM-update
// family; only the hour-meter changes.
type LoginUpdateParams struct {
	ID             string
	BeforeOperator string
	AfterOperator  string
	BeforeHM       *float64
	AfterHM        float64
	BeforeShift    string
	AfterShift     string
	Remark         string
	Actor          string
}

// TripRepository is the injected trip-store capability. Each method wraps one
// stored procedure; retrievals return raw variable-width rows so the caller
// owns the defensive column mapping.
type TripRepository interface {
	TripsByUnit(ctx context.Context, date, shift, equipment string) ([]model.RawRow, error)
	TripsByUnitNRP(ctx context.Context, date, shift, equipment, operator string) ([]model.RawRow, error)
	Insert(ctx context.Context, p InsertTripParams) error
	LatestIDByKey(ctx context.Context, reportTime time.Time, equipment, operator string) (string, error)
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	Modify(ctx context.Context, p ModifyTripParams) error
	UpdateShift(ctx context.Context, p UpdateShiftParams) error
	InsertLoginUpdate(ctx context.Context, p LoginUpdateParams) error
	RealtimeValidation(ctx context.Context, date, shift, equipment string) ([]string, []map[string]interface{}, error)
	HistoricalLogin(ctx context.Context, mobileID string) ([]map[string]interface{}, error)
}

// tripRepo is the GORM/SQL Server implementation of TripRepository.
type tripRepo struct {
	db *gorm.DB
}

// NewTripRepo creates a TripRepository over the given connection.
func NewTripRepo(db *gorm.DB) TripRepository {
	return &tripRepo{db: db}
}

func (r *tripRepo) TripsByUnit(ctx context.Context, date, shift, equipment string) ([]model.RawRow, error) {
	return r.rawRows(ctx,
		"EXEC dbo.MOSA_TV_GET_TRIP_BY_UNIT @date = ?, @shift = ?, @mobileid = ?",
		date, shift, equipment)
}

func (r *tripRepo) TripsByUnitNRP(ctx context.Context, date, shift, equipment, operator string) ([]model.RawRow, error) {
	return r.rawRows(ctx,
		"EXEC dbo.MOSA_TV_GET_TRIP_BY_UNIT_NRP @date = ?, @shift = ?, @mobileid = ?, @opr_nrp = ?",
		date, shift, equipment, operator)
}

func (r *tripRepo) Insert(ctx context.Context, p InsertTripParams) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Exec(
			`EXEC dbo.MOSA_TV_INSERT_TRIP
				@rep = ?, @mobileid = ?, @opr_nrp = ?, @opr_shift = ?,
				@act_loaderid = ?, @pos_name = ?, @act_hauldistance = ?`,
			p.ReportTime.Format("2006-01-02 15:04:05"),
			p.EquipmentNo, p.OperatorID, p.OprShift,
			p.LoaderID, p.PosName, p.Distance,
		).Error
	})
}

// LatestIDByKey recovers the identifier of the most recent trip matching the
// insert key. The insert procedure returns no result set, so this heuristic
// is the only way to learn the generated id; under concurrent inserts with an
// identical key it can pick a sibling row.
func (r *tripRepo) LatestIDByKey(ctx context.Context, reportTime time.Time, equipment, operator string) (string, error) {
	rows, err := r.rawRows(ctx,
		`SELECT TOP 1 id FROM opr_dump
		 WHERE reporttime = ? AND mobileid = ? AND opr_nrp = ?
		 ORDER BY id DESC`,
		reportTime, equipment, operator)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 || len(rows[0]) == 0 || rows[0][0] == nil {
		return "", nil
	}
	return model.TripFromRow(rows[0]).ID, nil
}

func (r *tripRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Exec("EXEC dbo.MOSA_TV_DELETE_TRIP @id = ?", id).Error
	})
}

func (r *tripRepo) Restore(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Exec("EXEC dbo.MOSA_TV_RESTORE_TRIP @id = ?", id).Error
	})
}

func (r *tripRepo) Modify(ctx context.Context, p ModifyTripParams) error {
	var rep *string
	if p.ReportTime != nil {
		s := p.ReportTime.Format("2006-01-02 15:04:05")
		rep = &s
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Exec(
			`EXEC dbo.MOSA_TV_MODIFY_TRIP
				@id = ?, @reporttime = ?, @act_loaderid = ?, @pos_name = ?, @act_hauldistance = ?`,
			p.ID, rep, p.LoaderID, p.PosName, p.Distance,
		).Error
	})
}

func (r *tripRepo) UpdateShift(ctx context.Context, p UpdateShiftParams) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Exec(
			`EXEC dbo.MOSA_TV_UPDATE_SHIFT
				@id = ?, @next_id = ?, @reporttime = ?, @next_reporttime = ?,
				@mobileid = ?, @opr_nrp = ?, @hm = ?, @next_hm = ?,
				@opr_shift = ?, @new_shift = ?`,
			p.ID, p.NextID, p.ReportTime, p.NextReportTime,
			p.Equipment, p.OperatorID, p.HM, p.NextHM,
			p.OprShift, p.NewShift,
		).Error
	})
}

func (r *tripRepo) InsertLoginUpdate(ctx context.Context, p LoginUpdateParams) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Exec(
			`EXEC dbo.MOSA_TV_INSERT_LOGIN_UPDATE
				@id = ?, @b_nrp = ?, @a_nrp = ?, @b_hm = ?, @a_hm = ?,
				@b_shift = ?, @a_shift = ?, @remark = ?, @actor = ?`,
			p.ID, p.BeforeOperator, p.AfterOperator, p.BeforeHM, p.AfterHM,
			p.BeforeShift, p.AfterShift, p.Remark, p.Actor,
		).Error
	})
}

func (r *tripRepo) RealtimeValidation(ctx context.Context, date, shift, equipment string) ([]string, []map[string]interface{}, error) {
	return r.mappedRows(ctx,
		"EXEC dbo.MOSA_TV_GET_REALTIME_VALIDATION @date = ?, @shift = ?, @mobileid = ?",
		date, shift, equipment)
}

func (r *tripRepo) HistoricalLogin(ctx context.Context, mobileID string) ([]map[string]interface{}, error) {
	_, rows, err := r.mappedRows(ctx,
		"EXEC dbo.MOSA_TV_GET_HISTORICAL_LOGIN @mobileid = ?",
		mobileID)
	return rows, err
}

// rawRows runs a query and returns every row as a positional []interface{}.
func (r *tripRepo) rawRows(ctx context.Context, query string, args ...interface{}) ([]model.RawRow, error) {
	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []model.RawRow
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		out = append(out, model.RawRow(vals))
	}
	return out, rows.Err()
}

// mappedRows runs a query and returns column order plus name-keyed rows,
// for result sets whose shape the store owns.
func (r *tripRepo) mappedRows(ctx context.Context, query string, args ...interface{}) ([]string, []map[string]interface{}, error) {
	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out []map[string]interface{}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		m := make(map[string]interface{}, len(cols))
		for i, name := range cols {
			if b, ok := vals[i].([]byte); ok {
				m[name] = string(b)
			} else {
				m[name] = vals[i]
			}
		}
		out = append(out, m)
	}
	return cols, out, rows.Err()
}
